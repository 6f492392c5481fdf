package documents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pm/meridian/internal/shared"
)

const documentColumns = `id, project_id, name, storage_key, content_type, shared, creator_id, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListDocuments returns all documents of a project.
func (r *Repository) ListDocuments(ctx context.Context, projectID int64) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+documentColumns+` FROM documents WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Name, &d.StorageKey, &d.ContentType, &d.Shared, &d.CreatorID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDocument fetches a single document scoped to a project.
func (r *Repository) GetDocument(ctx context.Context, projectID, id int64) (*Document, error) {
	var d Document
	err := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE project_id = $1 AND id = $2`, projectID, id).
		Scan(&d.ID, &d.ProjectID, &d.Name, &d.StorageKey, &d.ContentType, &d.Shared, &d.CreatorID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDocument inserts document metadata.
func (r *Repository) CreateDocument(ctx context.Context, d Document) (*Document, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO documents (project_id, name, storage_key, content_type, shared, creator_id)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING id, created_at, updated_at`,
		d.ProjectID, d.Name, d.StorageKey, d.ContentType, d.CreatorID).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// RenameDocument updates the display name.
func (r *Repository) RenameDocument(ctx context.Context, projectID, id int64, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE documents SET name = $3, updated_at = NOW() WHERE project_id = $1 AND id = $2`, projectID, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetShared toggles the shared flag.
func (r *Repository) SetShared(ctx context.Context, projectID, id int64, sharedFlag bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE documents SET shared = $3, updated_at = NOW() WHERE project_id = $1 AND id = $2`, projectID, id, sharedFlag)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteDocument removes document metadata.
func (r *Repository) DeleteDocument(ctx context.Context, projectID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE project_id = $1 AND id = $2`, projectID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
