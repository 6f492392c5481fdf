package finance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pm/meridian/internal/shared"
)

const entryColumns = `id, project_id, kind, amount_cents, currency, description, creator_id, occurred_at, created_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListEntries returns all entries of a project, newest occurrence first.
func (r *Repository) ListEntries(ctx context.Context, projectID int64) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM finance_entries WHERE project_id = $1 ORDER BY occurred_at DESC, id DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Kind, &e.AmountCents, &e.Currency, &e.Description, &e.CreatorID, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEntry fetches a single entry scoped to a project.
func (r *Repository) GetEntry(ctx context.Context, projectID, id int64) (*Entry, error) {
	var e Entry
	err := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM finance_entries WHERE project_id = $1 AND id = $2`, projectID, id).
		Scan(&e.ID, &e.ProjectID, &e.Kind, &e.AmountCents, &e.Currency, &e.Description, &e.CreatorID, &e.OccurredAt, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntry inserts an entry.
func (r *Repository) CreateEntry(ctx context.Context, e Entry) (*Entry, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO finance_entries (project_id, kind, amount_cents, currency, description, creator_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		e.ProjectID, e.Kind, e.AmountCents, e.Currency, e.Description, e.CreatorID, e.OccurredAt).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateEntry edits amount, description and occurrence date.
func (r *Repository) UpdateEntry(ctx context.Context, projectID, id, amountCents int64, description string, occurredAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE finance_entries SET amount_cents = $3, description = $4, occurred_at = $5
		WHERE project_id = $1 AND id = $2`,
		projectID, id, amountCents, description, occurredAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteEntry removes an entry.
func (r *Repository) DeleteEntry(ctx context.Context, projectID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM finance_entries WHERE project_id = $1 AND id = $2`, projectID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
