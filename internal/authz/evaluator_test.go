package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func subjectWith(role Role, pr *ProjectRole) Subject {
	return Subject{UserID: 7, CompanyID: 3, Role: role, ProjectRole: pr}
}

func projectRole(pr ProjectRole) *ProjectRole {
	return &pr
}

func TestHasAllEmptyListIsTrue(t *testing.T) {
	assert.True(t, HasAll(subjectWith(RoleUser, nil)))
}

func TestHasAnyEmptyListIsFalse(t *testing.T) {
	assert.False(t, HasAny(subjectWith(RoleOwner, nil)))
}

func TestHasAllMatchesEvery(t *testing.T) {
	subject := subjectWith(RoleManager, nil)
	caps := []Capability{CapViewProjects, CapCreateProjects, CapEditTasks, CapViewFinances}
	expected := true
	for _, c := range caps {
		expected = expected && Has(subject, c)
	}
	assert.Equal(t, expected, HasAll(subject, caps...))
	assert.False(t, HasAll(subject, CapViewProjects, CapEditSystemSettings))
}

func TestHasAnyMatchesSome(t *testing.T) {
	subject := subjectWith(RoleUser, nil)
	assert.True(t, HasAny(subject, CapEditSystemSettings, CapViewTasks))
	assert.False(t, HasAny(subject, CapEditSystemSettings, CapManageBilling))
}

func TestUserCannotCreateProjectsTenantWide(t *testing.T) {
	assert.False(t, Has(subjectWith(RoleUser, nil), CapCreateProjects))
}

// Baseline USER and the MEMBER override both grant document creation;
// agreement across layers must not regress.
func TestMemberOverrideAgreesWithBaseline(t *testing.T) {
	subject := subjectWith(RoleUser, projectRole(ProjectRoleMember))
	assert.True(t, Has(subject, CapCreateDocuments))
}

// A VIEWER membership restricts a MANAGER who could otherwise edit
// tasks tenant-wide: overrides can deny, not just grant.
func TestViewerOverrideRestrictsManager(t *testing.T) {
	subject := subjectWith(RoleManager, projectRole(ProjectRoleViewer))
	assert.False(t, Has(subject, CapEditTasks))
	assert.True(t, Has(subject, CapViewTasks), "viewing is inherited, not overridden")
}

func TestEffectiveWithoutProjectRoleIsBaseline(t *testing.T) {
	for _, role := range Roles() {
		assert.Equal(t, Baseline(role), Effective(subjectWith(role, nil)))
	}
}

func TestEffectiveDoesNotMutateTables(t *testing.T) {
	before := Baseline(RoleManager)
	_ = Effective(subjectWith(RoleManager, projectRole(ProjectRoleViewer)))
	assert.Equal(t, before, Baseline(RoleManager))
}

func TestSnapshotCoversVocabulary(t *testing.T) {
	snapshot := Effective(subjectWith(RoleAdmin, nil)).Snapshot()
	assert.Len(t, snapshot, int(NumCapabilities))
	assert.True(t, snapshot["canCreateProjects"])
	assert.False(t, snapshot["canChangeUserRoles"])
}
