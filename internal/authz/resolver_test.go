package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pm/meridian/internal/shared"
)

type stubUserStore struct {
	users map[int64]*UserRecord
	err   error
}

func (s *stubUserStore) FindUser(ctx context.Context, userID int64) (*UserRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

type stubMembershipStore struct {
	memberships map[int64]*MembershipRecord // keyed by projectID
	projects    map[int64]*ProjectRecord    // keyed by projectID
	err         error
}

func (s *stubMembershipStore) FindMembership(ctx context.Context, projectID, userID int64) (*MembershipRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.memberships[projectID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return m, nil
}

func (s *stubMembershipStore) FindProject(ctx context.Context, projectID int64) (*ProjectRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.projects[projectID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func newTestResolver(users *stubUserStore, memberships *stubMembershipStore) *Resolver {
	if users == nil {
		users = &stubUserStore{}
	}
	if memberships == nil {
		memberships = &stubMembershipStore{}
	}
	return NewResolver(users, memberships)
}

func TestResolveTenantOnly(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{users: map[int64]*UserRecord{
		42: {ID: 42, CompanyID: 9, Role: RoleManager},
	}}, nil)

	subject, err := resolver.Resolve(context.Background(), 42, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(42), subject.UserID)
	assert.Equal(t, int64(9), subject.CompanyID)
	assert.Equal(t, RoleManager, subject.Role)
	assert.Nil(t, subject.ProjectRole)
	assert.False(t, subject.IsProjectOwner)
}

// A valid session whose user record was deleted resolves to
// unauthenticated, not forbidden.
func TestResolveDeletedUserIsUnauthenticated(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{users: map[int64]*UserRecord{}}, nil)

	_, err := resolver.Resolve(context.Background(), 42, 0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.NotErrorIs(t, err, ErrResolutionFailure)
}

func TestResolveZeroUserIDIsUnauthenticated(t *testing.T) {
	resolver := newTestResolver(nil, nil)
	_, err := resolver.Resolve(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveUserStoreFailureIsResolutionFailure(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{err: errors.New("pg down")}, nil)
	_, err := resolver.Resolve(context.Background(), 42, 0)
	assert.ErrorIs(t, err, ErrResolutionFailure)
}

func TestResolveWithMembership(t *testing.T) {
	resolver := newTestResolver(
		&stubUserStore{users: map[int64]*UserRecord{42: {ID: 42, CompanyID: 9, Role: RoleUser}}},
		&stubMembershipStore{memberships: map[int64]*MembershipRecord{
			5: {ProjectRole: ProjectRoleMember, ProjectCreatorID: 42},
		}},
	)

	subject, err := resolver.Resolve(context.Background(), 42, 5)
	require.NoError(t, err)
	require.NotNil(t, subject.ProjectRole)
	assert.Equal(t, ProjectRoleMember, *subject.ProjectRole)
	assert.True(t, subject.IsProjectOwner)
}

func TestResolveMissingMembershipIsNotAnError(t *testing.T) {
	resolver := newTestResolver(
		&stubUserStore{users: map[int64]*UserRecord{42: {ID: 42, CompanyID: 9, Role: RoleUser}}},
		&stubMembershipStore{memberships: map[int64]*MembershipRecord{}},
	)

	subject, err := resolver.Resolve(context.Background(), 42, 5)
	require.NoError(t, err)
	assert.Nil(t, subject.ProjectRole)
	assert.False(t, subject.IsProjectOwner)
}

func TestResolveMembershipStoreFailureIsResolutionFailure(t *testing.T) {
	resolver := newTestResolver(
		&stubUserStore{users: map[int64]*UserRecord{42: {ID: 42, CompanyID: 9, Role: RoleUser}}},
		&stubMembershipStore{err: errors.New("timeout")},
	)

	_, err := resolver.Resolve(context.Background(), 42, 5)
	assert.ErrorIs(t, err, ErrResolutionFailure)
}

func TestResolveRejectsUnknownStoredRole(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{users: map[int64]*UserRecord{
		42: {ID: 42, CompanyID: 9, Role: Role("SUPERUSER")},
	}}, nil)

	_, err := resolver.Resolve(context.Background(), 42, 0)
	assert.ErrorIs(t, err, ErrResolutionFailure)
}
