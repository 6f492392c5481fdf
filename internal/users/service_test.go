package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/shared"
)

type mockRepository struct {
	users       map[int64]*User
	nextID      int64
	updatedRole map[int64]authz.Role
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[int64]*User), nextID: 1, updatedRole: make(map[int64]authz.Role)}
}

func (m *mockRepository) ListUsers(ctx context.Context, companyID int64) ([]User, error) {
	var out []User
	for _, u := range m.users {
		if u.CompanyID == companyID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockRepository) GetUser(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepository) CreateUser(ctx context.Context, user User, passwordHash string) (*User, error) {
	user.ID = m.nextID
	m.nextID++
	user.IsActive = true
	m.users[user.ID] = &user
	return &user, nil
}

func (m *mockRepository) UpdateRole(ctx context.Context, id int64, role authz.Role) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.Role = role
	m.updatedRole[id] = role
	return nil
}

func TestCreateUserNormalizesEmailAndValidatesRole(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	user, err := service.CreateUser(context.Background(), 1, "  Dana@Example.COM ", "Dana", "hunter2hunter2", authz.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, authz.RoleManager, user.Role)

	_, err = service.CreateUser(context.Background(), 1, "x@example.com", "X", "hunter2hunter2", authz.Role("WIZARD"))
	assert.Error(t, err)
}

func TestChangeRole(t *testing.T) {
	repo := newMockRepository()
	repo.users[2] = &User{ID: 2, CompanyID: 1, Role: authz.RoleUser}
	repo.users[3] = &User{ID: 3, CompanyID: 9, Role: authz.RoleUser}
	service := NewService(repo)
	actor := authz.Subject{UserID: 1, CompanyID: 1, Role: authz.RoleOwner}

	require.NoError(t, service.ChangeRole(context.Background(), actor, 2, authz.RoleManager))
	assert.Equal(t, authz.RoleManager, repo.updatedRole[2])

	assert.ErrorIs(t, service.ChangeRole(context.Background(), actor, 1, authz.RoleUser), ErrOwnRole)
	assert.ErrorIs(t, service.ChangeRole(context.Background(), actor, 99, authz.RoleUser), shared.ErrNotFound)
	assert.ErrorIs(t, service.ChangeRole(context.Background(), actor, 3, authz.RoleUser), shared.ErrNotFound, "cross-company targets look absent")
}
