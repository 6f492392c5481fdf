package tasks

import (
	"context"
	"errors"
	"strings"

	"github.com/meridian-pm/meridian/internal/authz"
)

// TaskRepository defines persistence operations the service needs.
type TaskRepository interface {
	ListTasks(ctx context.Context, projectID int64) ([]Task, error)
	GetTask(ctx context.Context, projectID, id int64) (*Task, error)
	CreateTask(ctx context.Context, t Task) (*Task, error)
	UpdateTask(ctx context.Context, projectID, id int64, title, description string, status Status) (*Task, error)
	AssignTask(ctx context.Context, projectID, id, assigneeID int64) error
	DeleteTask(ctx context.Context, projectID, id int64) error
}

// Service orchestrates task management.
type Service struct {
	repo TaskRepository
}

// NewService constructs a Service.
func NewService(repo TaskRepository) *Service {
	return &Service{repo: repo}
}

// ListTasks returns the project's tasks visible to the subject. The
// task query cannot pre-filter by permission, so the in-memory scope
// filter is applied to the result.
func (s *Service) ListTasks(ctx context.Context, subject authz.Subject, projectID int64) ([]Task, error) {
	list, err := s.repo.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return authz.ScopeRecords(list, subject), nil
}

// GetTask fetches a task.
func (s *Service) GetTask(ctx context.Context, projectID, id int64) (*Task, error) {
	return s.repo.GetTask(ctx, projectID, id)
}

// CreateTask registers a new task created by the subject.
func (s *Service) CreateTask(ctx context.Context, subject authz.Subject, projectID int64, t Task) (*Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return nil, errors.New("tasks: title required")
	}
	t.ProjectID = projectID
	t.CreatorID = subject.UserID
	return s.repo.CreateTask(ctx, t)
}

// UpdateTask edits a task.
func (s *Service) UpdateTask(ctx context.Context, projectID, id int64, title, description string, status Status) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("tasks: title required")
	}
	switch status {
	case StatusOpen, StatusInProgress, StatusDone:
	default:
		return nil, errors.New("tasks: unknown status")
	}
	return s.repo.UpdateTask(ctx, projectID, id, title, strings.TrimSpace(description), status)
}

// AssignTask sets the assignee; zero clears it.
func (s *Service) AssignTask(ctx context.Context, projectID, id, assigneeID int64) error {
	return s.repo.AssignTask(ctx, projectID, id, assigneeID)
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, projectID, id int64) error {
	return s.repo.DeleteTask(ctx, projectID, id)
}
