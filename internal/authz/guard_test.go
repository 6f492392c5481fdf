package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAccessProject(t *testing.T) {
	member := ProjectRoleMember
	cases := []struct {
		name        string
		role        Role
		projectRole *ProjectRole
		isOwner     bool
		want        bool
	}{
		{"tenant owner always", RoleOwner, nil, false, true},
		{"tenant admin always", RoleAdmin, nil, false, true},
		{"manager without membership", RoleManager, nil, false, false},
		{"manager with membership", RoleManager, &member, false, true},
		{"user without membership", RoleUser, nil, false, false},
		{"user with membership", RoleUser, &member, false, true},
		{"user as project creator", RoleUser, nil, true, true},
		{"unknown role fails closed", Role("INTERN"), &member, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAccessProject(tc.role, tc.projectRole, tc.isOwner))
		})
	}
}

func TestGuardCheckAllowed(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{users: map[int64]*UserRecord{
		1: {ID: 1, CompanyID: 2, Role: RoleAdmin},
	}}, nil)

	g := Guard{Resolver: resolver, Capabilities: []Capability{CapCreateProjects, CapViewProjects}}
	decision, err := g.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	require.NotNil(t, decision.Subject)
	assert.Equal(t, RoleAdmin, decision.Subject.Role)
	assert.Empty(t, decision.Reason)
}

func TestGuardCheckInsufficientPermissions(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{users: map[int64]*UserRecord{
		1: {ID: 1, CompanyID: 2, Role: RoleUser},
	}}, nil)

	g := Guard{Resolver: resolver, Capabilities: []Capability{CapCreateProjects}}
	decision, err := g.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonInsufficientPermissions, decision.Reason)
	assert.NotNil(t, decision.Subject)
}

func TestGuardCheckAnyCombinator(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{users: map[int64]*UserRecord{
		1: {ID: 1, CompanyID: 2, Role: RoleUser},
	}}, nil)

	g := Guard{Resolver: resolver, Mode: CombineAny, Capabilities: []Capability{CapCreateProjects, CapViewTasks}}
	decision, err := g.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

// Project visibility is a precondition: capability tables are not even
// consulted for a project the subject cannot see.
func TestGuardCheckProjectAccessPrecondition(t *testing.T) {
	resolver := newTestResolver(
		&stubUserStore{users: map[int64]*UserRecord{1: {ID: 1, CompanyID: 2, Role: RoleUser}}},
		&stubMembershipStore{
			memberships: map[int64]*MembershipRecord{},
			projects:    map[int64]*ProjectRecord{9: {CompanyID: 2, CreatorID: 3}},
		},
	)

	g := Guard{Resolver: resolver, ProjectID: 9, Capabilities: []Capability{CapViewTasks}}
	decision, err := g.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNoProjectAccess, decision.Reason)
}

func TestGuardCheckProjectScopedAllowed(t *testing.T) {
	resolver := newTestResolver(
		&stubUserStore{users: map[int64]*UserRecord{1: {ID: 1, CompanyID: 2, Role: RoleUser}}},
		&stubMembershipStore{
			memberships: map[int64]*MembershipRecord{
				9: {ProjectRole: ProjectRoleMember, ProjectCreatorID: 3},
			},
			projects: map[int64]*ProjectRecord{9: {CompanyID: 2, CreatorID: 3}},
		},
	)

	g := Guard{Resolver: resolver, ProjectID: 9, Capabilities: []Capability{CapCreateTasks}}
	decision, err := g.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	require.NotNil(t, decision.Subject)
	assert.Equal(t, ProjectRoleMember, *decision.Subject.ProjectRole)
}

// Tenant role never reaches across companies: an admin of one company
// is denied a project belonging to another, same as a missing project.
func TestGuardCheckDeniesForeignCompanyProject(t *testing.T) {
	resolver := newTestResolver(
		&stubUserStore{users: map[int64]*UserRecord{1: {ID: 1, CompanyID: 2, Role: RoleAdmin}}},
		&stubMembershipStore{
			memberships: map[int64]*MembershipRecord{},
			projects:    map[int64]*ProjectRecord{9: {CompanyID: 1, CreatorID: 3}},
		},
	)

	g := Guard{Resolver: resolver, ProjectID: 9, Capabilities: []Capability{CapEditProjects}}
	decision, err := g.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNoProjectAccess, decision.Reason)
}

func TestGuardCheckDeniesUnknownProject(t *testing.T) {
	resolver := newTestResolver(
		&stubUserStore{users: map[int64]*UserRecord{1: {ID: 1, CompanyID: 2, Role: RoleOwner}}},
		&stubMembershipStore{memberships: map[int64]*MembershipRecord{}},
	)

	g := Guard{Resolver: resolver, ProjectID: 404, Capabilities: []Capability{CapViewProjects}}
	decision, err := g.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNoProjectAccess, decision.Reason)
}

func TestGuardCheckUnauthenticated(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{users: map[int64]*UserRecord{}}, nil)

	g := Guard{Resolver: resolver, Capabilities: []Capability{CapViewTasks}}
	decision, err := g.Check(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNotAuthenticated, decision.Reason)
}

// A failing store denies; it never defaults to allowed.
func TestGuardCheckFailsClosedOnStoreError(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{err: errors.New("pg down")}, nil)

	g := Guard{Resolver: resolver, Capabilities: []Capability{CapViewTasks}}
	decision, err := g.Check(context.Background(), 1)
	assert.ErrorIs(t, err, ErrResolutionFailure)
	assert.False(t, decision.Allowed)
}
