package domain

import "errors"

var ErrNotFound = errors.New("not found")

// AppError is an operational error that carries its own HTTP status. The
// error normalizer maps it verbatim instead of classifying it.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}
