package projects

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/shared"
)

// ProjectRepository defines persistence operations the service needs.
type ProjectRepository interface {
	ListProjects(ctx context.Context, companyID int64) ([]Project, error)
	ListProjectsForUser(ctx context.Context, companyID, userID int64) ([]Project, error)
	GetProject(ctx context.Context, id int64) (*Project, error)
	CreateProject(ctx context.Context, p Project) (*Project, error)
	UpdateProject(ctx context.Context, id int64, name, description string) (*Project, error)
	UpdateClientRequisites(ctx context.Context, id int64, requisites string) error
	SetStatus(ctx context.Context, id int64, status Status) error
	DeleteProject(ctx context.Context, id int64) error
	ListMembers(ctx context.Context, projectID int64) ([]Member, error)
	UpsertMember(ctx context.Context, m Member) error
	RemoveMember(ctx context.Context, projectID, userID int64) error
}

// Notifier enqueues membership notifications. Implemented by the jobs
// client; a nil Notifier disables notifications.
type Notifier interface {
	NotifyMembershipChange(ctx context.Context, projectID, userID int64, role string, removed bool) error
}

// Service orchestrates project management.
type Service struct {
	repo     ProjectRepository
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a Service.
func NewService(repo ProjectRepository, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// ListProjects returns the projects visible to the subject. OWNER,
// ADMIN and MANAGER see the whole company; USER only projects they
// created or belong to.
func (s *Service) ListProjects(ctx context.Context, subject authz.Subject) ([]Project, error) {
	switch subject.Role {
	case authz.RoleOwner, authz.RoleAdmin, authz.RoleManager:
		return s.repo.ListProjects(ctx, subject.CompanyID)
	case authz.RoleUser:
		return s.repo.ListProjectsForUser(ctx, subject.CompanyID, subject.UserID)
	default:
		return nil, nil
	}
}

// GetProject fetches a project, confirming the tenant boundary. A
// project in another company is reported as absent, never as
// forbidden, so foreign ids stay unguessable.
func (s *Service) GetProject(ctx context.Context, subject authz.Subject, id int64) (*Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CompanyID != subject.CompanyID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

// CreateProject registers a new project; the creator becomes its
// project owner.
func (s *Service) CreateProject(ctx context.Context, subject authz.Subject, name, description, requisites string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("projects: name required")
	}
	return s.repo.CreateProject(ctx, Project{
		CompanyID:        subject.CompanyID,
		Name:             name,
		Description:      strings.TrimSpace(description),
		ClientRequisites: requisites,
		CreatorID:        subject.UserID,
	})
}

// UpdateProject edits name/description. Writes hold the same tenant
// boundary as reads.
func (s *Service) UpdateProject(ctx context.Context, subject authz.Subject, id int64, name, description string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("projects: name required")
	}
	if _, err := s.GetProject(ctx, subject, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateProject(ctx, id, name, strings.TrimSpace(description))
}

// UpdateClientRequisites replaces the client requisites blob.
func (s *Service) UpdateClientRequisites(ctx context.Context, subject authz.Subject, id int64, requisites string) error {
	if _, err := s.GetProject(ctx, subject, id); err != nil {
		return err
	}
	return s.repo.UpdateClientRequisites(ctx, id, requisites)
}

// ArchiveProject marks a project archived.
func (s *Service) ArchiveProject(ctx context.Context, subject authz.Subject, id int64) error {
	if _, err := s.GetProject(ctx, subject, id); err != nil {
		return err
	}
	return s.repo.SetStatus(ctx, id, StatusArchived)
}

// DeleteProject removes a project.
func (s *Service) DeleteProject(ctx context.Context, subject authz.Subject, id int64) error {
	if _, err := s.GetProject(ctx, subject, id); err != nil {
		return err
	}
	return s.repo.DeleteProject(ctx, id)
}

// ListMembers returns the membership rows of a project.
func (s *Service) ListMembers(ctx context.Context, projectID int64) ([]Member, error) {
	return s.repo.ListMembers(ctx, projectID)
}

// AddMember grants a user a project role, creating or updating the
// membership row, and queues a notification.
func (s *Service) AddMember(ctx context.Context, projectID, userID int64, role authz.ProjectRole) error {
	if !role.Valid() {
		return errors.New("projects: unknown project role")
	}
	if err := s.repo.UpsertMember(ctx, Member{ProjectID: projectID, UserID: userID, Role: role}); err != nil {
		return err
	}
	s.notify(ctx, projectID, userID, string(role), false)
	return nil
}

// RemoveMember ends a membership.
func (s *Service) RemoveMember(ctx context.Context, projectID, userID int64) error {
	if err := s.repo.RemoveMember(ctx, projectID, userID); err != nil {
		return err
	}
	s.notify(ctx, projectID, userID, "", true)
	return nil
}

func (s *Service) notify(ctx context.Context, projectID, userID int64, role string, removed bool) {
	if s.notifier == nil {
		return
	}
	// Notification delivery is best effort; membership changes never
	// roll back because the queue is down.
	if err := s.notifier.NotifyMembershipChange(ctx, projectID, userID, role, removed); err != nil {
		s.logger.Warn("membership notification dropped",
			slog.Int64("project_id", projectID),
			slog.Int64("user_id", userID),
			slog.Any("error", err))
	}
}
