package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/shared"
)

type mockRepository struct {
	tasks  map[int64]*Task
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{tasks: make(map[int64]*Task), nextID: 1}
}

func (m *mockRepository) ListTasks(ctx context.Context, projectID int64) ([]Task, error) {
	var out []Task
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockRepository) GetTask(ctx context.Context, projectID, id int64) (*Task, error) {
	t, ok := m.tasks[id]
	if !ok || t.ProjectID != projectID {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (m *mockRepository) CreateTask(ctx context.Context, t Task) (*Task, error) {
	t.ID = m.nextID
	m.nextID++
	t.Status = StatusOpen
	m.tasks[t.ID] = &t
	return &t, nil
}

func (m *mockRepository) UpdateTask(ctx context.Context, projectID, id int64, title, description string, status Status) (*Task, error) {
	t, err := m.GetTask(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	t.Title, t.Description, t.Status = title, description, status
	return t, nil
}

func (m *mockRepository) AssignTask(ctx context.Context, projectID, id, assigneeID int64) error {
	t, err := m.GetTask(ctx, projectID, id)
	if err != nil {
		return err
	}
	t.AssigneeID = assigneeID
	return nil
}

func (m *mockRepository) DeleteTask(ctx context.Context, projectID, id int64) error {
	if _, err := m.GetTask(ctx, projectID, id); err != nil {
		return err
	}
	delete(m.tasks, id)
	return nil
}

func seedTasks(t *testing.T, service *Service) {
	t.Helper()
	creator := authz.Subject{UserID: 10, CompanyID: 1, Role: authz.RoleManager}
	other := authz.Subject{UserID: 20, CompanyID: 1, Role: authz.RoleManager}
	_, err := service.CreateTask(context.Background(), creator, 1, Task{Title: "mine"})
	require.NoError(t, err)
	_, err = service.CreateTask(context.Background(), other, 1, Task{Title: "assigned to me", AssigneeID: 10})
	require.NoError(t, err)
	_, err = service.CreateTask(context.Background(), other, 1, Task{Title: "someone else's"})
	require.NoError(t, err)
}

func TestListTasksScopesForUserRole(t *testing.T) {
	service := NewService(newMockRepository())
	seedTasks(t, service)

	scoped, err := service.ListTasks(context.Background(), authz.Subject{UserID: 10, CompanyID: 1, Role: authz.RoleUser}, 1)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	for _, task := range scoped {
		assert.True(t, task.CreatorID == 10 || task.AssigneeID == 10)
	}
}

func TestListTasksUnfilteredForManager(t *testing.T) {
	service := NewService(newMockRepository())
	seedTasks(t, service)

	all, err := service.ListTasks(context.Background(), authz.Subject{UserID: 10, CompanyID: 1, Role: authz.RoleManager}, 1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateTaskValidatesStatus(t *testing.T) {
	service := NewService(newMockRepository())
	creator := authz.Subject{UserID: 10, CompanyID: 1, Role: authz.RoleManager}
	task, err := service.CreateTask(context.Background(), creator, 1, Task{Title: "mine"})
	require.NoError(t, err)

	_, err = service.UpdateTask(context.Background(), 1, task.ID, "mine", "", Status("PAUSED"))
	assert.Error(t, err)

	updated, err := service.UpdateTask(context.Background(), 1, task.ID, "mine", "notes", StatusDone)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, updated.Status)
}
