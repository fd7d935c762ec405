package domain

import "time"

type Milestone struct {
	ID        string
	ProjectID string
	Name      string
	DueDate   time.Time
	CreatedAt time.Time
}

// TimelineEntry is a due-dated item on a project timeline, either a task
// or a milestone.
type TimelineEntry struct {
	Kind  string
	ID    string
	Title string
	Due   time.Time
}
