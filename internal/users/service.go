package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/shared"
)

// ErrOwnRole is returned when a user attempts to change their own role.
var ErrOwnRole = errors.New("users: cannot change own role")

// UserRepository defines persistence operations the service needs.
type UserRepository interface {
	ListUsers(ctx context.Context, companyID int64) ([]User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, user User, passwordHash string) (*User, error)
	UpdateRole(ctx context.Context, id int64, role authz.Role) error
}

// Service orchestrates user management.
type Service struct {
	repo UserRepository
}

// NewService constructs a Service.
func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

// ListUsers returns the users of the subject's company.
func (s *Service) ListUsers(ctx context.Context, companyID int64) ([]User, error) {
	return s.repo.ListUsers(ctx, companyID)
}

// CreateUser registers a new account with the given role.
func (s *Service) CreateUser(ctx context.Context, companyID int64, email, name, password string, role authz.Role) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("users: email required")
	}
	if !role.Valid() {
		return nil, errors.New("users: unknown role")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateUser(ctx, User{
		CompanyID: companyID,
		Email:     email,
		Name:      strings.TrimSpace(name),
		Role:      role,
	}, string(hash))
}

// ChangeRole updates a user's tenant role. The capability check
// happens at the route guard; this enforces the remaining business
// rules: no self-demotion, target must exist in the same company.
func (s *Service) ChangeRole(ctx context.Context, actor authz.Subject, targetID int64, role authz.Role) error {
	if !role.Valid() {
		return errors.New("users: unknown role")
	}
	if actor.UserID == targetID {
		return ErrOwnRole
	}
	target, err := s.repo.GetUser(ctx, targetID)
	if err != nil {
		return err
	}
	// A user in another company is reported as absent, never as
	// forbidden, so foreign ids stay unguessable.
	if target.CompanyID != actor.CompanyID {
		return shared.ErrNotFound
	}
	return s.repo.UpdateRole(ctx, targetID, role)
}
