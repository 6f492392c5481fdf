package users

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/shared"
)

// Repository provides PostgreSQL backed persistence. It also serves
// as the authz.UserStore behind the subject resolver.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns all users of a company.
func (r *Repository) ListUsers(ctx context.Context, companyID int64) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, company_id, email, name, role, is_active, created_at, updated_at FROM users WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.CompanyID, &user.Email, &user.Name, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a single user by id.
func (r *Repository) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `SELECT id, company_id, email, name, role, is_active, created_at, updated_at FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.CompanyID, &user.Email, &user.Name, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user.
func (r *Repository) CreateUser(ctx context.Context, user User, passwordHash string) (*User, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (company_id, email, name, role, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, created_at, updated_at`,
		user.CompanyID, user.Email, user.Name, user.Role, passwordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	user.IsActive = true
	return &user, nil
}

// UpdateRole changes the tenant role of a user.
func (r *Repository) UpdateRole(ctx context.Context, id int64, role authz.Role) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindUser implements authz.UserStore. Inactive accounts resolve like
// deleted ones so a disabled user cannot keep an authorized session.
func (r *Repository) FindUser(ctx context.Context, userID int64) (*authz.UserRecord, error) {
	var record authz.UserRecord
	var active bool
	err := r.pool.QueryRow(ctx, `SELECT id, company_id, role, is_active FROM users WHERE id = $1`, userID).
		Scan(&record.ID, &record.CompanyID, &record.Role, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if !active {
		return nil, shared.ErrNotFound
	}
	return &record, nil
}
