package users

import (
	"time"

	"github.com/meridian-pm/meridian/internal/authz"
)

// User represents a tenant user account.
type User struct {
	ID        int64
	CompanyID int64
	Email     string
	Name      string
	Role      authz.Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
