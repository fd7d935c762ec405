package domain

import "time"

type Team struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type TeamMember struct {
	ID        string
	TeamID    string
	UserID    string
	Role      string
	CreatedAt time.Time
}
