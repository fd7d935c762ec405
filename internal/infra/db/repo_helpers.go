package db

import (
	"errors"

	"taskboard/internal/domain"

	"gorm.io/gorm"
)

var errDBUnavailable = errors.New("database unavailable")

// mapNotFound keeps gorm's record-not-found out of the domain layer for
// point lookups; everything else passes through for the normalizer.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
