package domain

import "time"

// DateLayout is the calendar date format used for project start and end.
const DateLayout = "2006-01-02"

// Project statuses used by filters and stats.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
)

type Project struct {
	ID       string
	OwnerID  string
	Name     string
	Domain   string
	Industry string
	Start    string // YYYY-MM-DD
	End      string // YYYY-MM-DD, empty while running
	Running  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status returns StatusRunning or StatusCompleted.
func (p Project) Status() string {
	if p.Running {
		return StatusRunning
	}
	return StatusCompleted
}

// ProjectFilter narrows a project listing. Zero values match everything.
type ProjectFilter struct {
	Search string // case-insensitive substring of the name
	Domain string // exact domain name
	Status string // StatusRunning, StatusCompleted or empty
}

type ProjectStats struct {
	Total     int
	Running   int
	Completed int
}
