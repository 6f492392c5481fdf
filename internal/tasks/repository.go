package tasks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pm/meridian/internal/shared"
)

const taskColumns = `id, project_id, title, description, status, creator_id, assignee_id, due_at, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	var assignee *int64
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.CreatorID, &assignee, &t.DueAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if assignee != nil {
		t.AssigneeID = *assignee
	}
	return &t, nil
}

// ListTasks returns all tasks of a project.
func (r *Repository) ListTasks(ctx context.Context, projectID int64) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		var t Task
		var assignee *int64
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.CreatorID, &assignee, &t.DueAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if assignee != nil {
			t.AssigneeID = *assignee
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTask fetches a task by id within a project.
func (r *Repository) GetTask(ctx context.Context, projectID, id int64) (*Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 AND id = $2`, projectID, id))
}

// CreateTask inserts a task.
func (r *Repository) CreateTask(ctx context.Context, t Task) (*Task, error) {
	var assignee *int64
	if t.AssigneeID > 0 {
		assignee = &t.AssigneeID
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (project_id, title, description, status, creator_id, assignee_id, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		t.ProjectID, t.Title, t.Description, StatusOpen, t.CreatorID, assignee, t.DueAt).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = StatusOpen
	return &t, nil
}

// UpdateTask updates title/description/status.
func (r *Repository) UpdateTask(ctx context.Context, projectID, id int64, title, description string, status Status) (*Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks SET title = $3, description = $4, status = $5, updated_at = NOW()
		WHERE project_id = $1 AND id = $2
		RETURNING `+taskColumns, projectID, id, title, description, status))
}

// AssignTask sets or clears the assignee.
func (r *Repository) AssignTask(ctx context.Context, projectID, id, assigneeID int64) error {
	var assignee *int64
	if assigneeID > 0 {
		assignee = &assigneeID
	}
	tag, err := r.pool.Exec(ctx, `UPDATE tasks SET assignee_id = $3, updated_at = NOW() WHERE project_id = $1 AND id = $2`, projectID, id, assignee)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteTask removes a task.
func (r *Repository) DeleteTask(ctx context.Context, projectID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE project_id = $1 AND id = $2`, projectID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
