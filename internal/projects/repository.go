package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/platform/db"
	"github.com/meridian-pm/meridian/internal/shared"
)

const projectColumns = `id, company_id, name, description, client_requisites, status, creator_id, created_at, updated_at`

// Repository provides PostgreSQL backed persistence. It also serves
// as the authz.MembershipStore behind the subject resolver.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.ClientRequisites, &p.Status, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListProjects returns every project of a company.
func (r *Repository) ListProjects(ctx context.Context, companyID int64) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// ListProjectsForUser returns the projects a user created or belongs to.
func (r *Repository) ListProjectsForUser(ctx context.Context, companyID, userID int64) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT p.id, p.company_id, p.name, p.description, p.client_requisites, p.status, p.creator_id, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN project_members m ON m.project_id = p.id AND m.user_id = $2
		WHERE p.company_id = $1 AND (p.creator_id = $2 OR m.user_id IS NOT NULL)
		ORDER BY p.id`, companyID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func collectProjects(rows pgx.Rows) ([]Project, error) {
	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.ClientRequisites, &p.Status, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject fetches a project by id.
func (r *Repository) GetProject(ctx context.Context, id int64) (*Project, error) {
	return scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
}

// CreateProject inserts a project and adds the creator as project
// owner inside one transaction.
func (r *Repository) CreateProject(ctx context.Context, p Project) (*Project, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO projects (company_id, name, description, client_requisites, status, creator_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			p.CompanyID, p.Name, p.Description, p.ClientRequisites, StatusActive, p.CreatorID).
			Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
				return shared.ErrDuplicate
			}
			return err
		}
		p.Status = StatusActive

		_, err = tx.Exec(ctx, `
			INSERT INTO project_members (project_id, user_id, role) VALUES ($1, $2, $3)`,
			p.ID, p.CreatorID, authz.ProjectRoleOwner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject updates name/description.
func (r *Repository) UpdateProject(ctx context.Context, id int64, name, description string) (*Project, error) {
	return scanProject(r.pool.QueryRow(ctx, `
		UPDATE projects SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+projectColumns, id, name, description))
}

// UpdateClientRequisites replaces the client requisites blob.
func (r *Repository) UpdateClientRequisites(ctx context.Context, id int64, requisites string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE projects SET client_requisites = $2, updated_at = NOW() WHERE id = $1`, id, requisites)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetStatus archives or reactivates a project.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE projects SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteProject removes a project and its membership rows.
func (r *Repository) DeleteProject(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListMembers returns the membership rows of a project.
func (r *Repository) ListMembers(ctx context.Context, projectID int64) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT project_id, user_id, role, added_at FROM project_members WHERE project_id = $1 ORDER BY added_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertMember adds a user to a project or updates their role.
func (r *Repository) UpsertMember(ctx context.Context, m Member) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO UPDATE SET role = EXCLUDED.role`,
		m.ProjectID, m.UserID, m.Role)
	return err
}

// RemoveMember ends a membership; the project role vanishes with it.
func (r *Repository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindProject implements the project half of authz.MembershipStore:
// the tenant facts the guards check before any capability.
func (r *Repository) FindProject(ctx context.Context, projectID int64) (*authz.ProjectRecord, error) {
	var record authz.ProjectRecord
	err := r.pool.QueryRow(ctx, `SELECT company_id, creator_id FROM projects WHERE id = $1`, projectID).
		Scan(&record.CompanyID, &record.CreatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindMembership implements authz.MembershipStore.
func (r *Repository) FindMembership(ctx context.Context, projectID, userID int64) (*authz.MembershipRecord, error) {
	var record authz.MembershipRecord
	err := r.pool.QueryRow(ctx, `
		SELECT m.role, p.creator_id
		FROM project_members m
		JOIN projects p ON p.id = m.project_id
		WHERE m.project_id = $1 AND m.user_id = $2`, projectID, userID).
		Scan(&record.ProjectRole, &record.ProjectCreatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}
