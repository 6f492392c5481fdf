package tasks

import "time"

// Status enumerates task states.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Task is a unit of work inside a project.
type Task struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description string
	Status      Status
	CreatorID   int64
	AssigneeID  int64
	DueAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerIDs implements authz.Owned for list scoping.
func (t Task) OwnerIDs() (int64, int64) {
	return t.CreatorID, t.AssigneeID
}
