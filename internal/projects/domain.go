package projects

import (
	"time"

	"github.com/meridian-pm/meridian/internal/authz"
)

// Status enumerates the lifecycle states of a project.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusArchived Status = "ARCHIVED"
)

// Project is a unit of work owned by one company.
type Project struct {
	ID               int64
	CompanyID        int64
	Name             string
	Description      string
	ClientRequisites string
	Status           Status
	CreatorID        int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Member ties a user to a project with a project role. It exists only
// while the membership row exists.
type Member struct {
	ProjectID int64
	UserID    int64
	Role      authz.ProjectRole
	AddedAt   time.Time
}
