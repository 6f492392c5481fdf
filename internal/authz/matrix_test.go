package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaselineTotality(t *testing.T) {
	for _, role := range Roles() {
		grants, ok := baselineGrants[role]
		require.True(t, ok, "role %s missing from baseline table", role)
		for c := Capability(0); c < NumCapabilities; c++ {
			_, authored := grants[c]
			assert.True(t, authored, "role %s missing capability %s", role, c)
		}
		require.Len(t, grants, int(NumCapabilities), "role %s has stray entries", role)
	}
}

func TestOverrideTablePresentForEveryProjectRole(t *testing.T) {
	for _, pr := range ProjectRoles() {
		_, ok := overrideGrants[pr]
		require.True(t, ok, "project role %s missing from override table", pr)
	}
}

func TestCapabilityNamesAreUnique(t *testing.T) {
	seen := make(map[string]Capability, NumCapabilities)
	for c := Capability(0); c < NumCapabilities; c++ {
		name := c.String()
		require.NotEmpty(t, name)
		prev, dup := seen[name]
		require.False(t, dup, "capability %d and %d share name %s", prev, c, name)
		seen[name] = c
	}
}

// OWNER must be a strict superset of ADMIN except for the three
// documented negatives. Any drift in the authored tables fails here.
func TestOwnerSupersetOfAdmin(t *testing.T) {
	owner := Baseline(RoleOwner)
	admin := Baseline(RoleAdmin)

	expectedDiff := map[Capability]bool{
		CapDeleteUsers:        true,
		CapChangeUserRoles:    true,
		CapEditSystemSettings: true,
	}

	diff := make(map[Capability]bool)
	for c := Capability(0); c < NumCapabilities; c++ {
		if owner.Has(c) && !admin.Has(c) {
			diff[c] = true
		}
		assert.False(t, !owner.Has(c) && admin.Has(c),
			"ADMIN holds %s which OWNER lacks", c)
	}
	assert.Equal(t, expectedDiff, diff)
}

// USER holds canEditProjectClientRequisites while MANAGER does not.
// Inherited business policy; do not "fix" without a product decision.
func TestClientRequisitesQuirkPinned(t *testing.T) {
	assert.True(t, Baseline(RoleUser).Has(CapEditProjectClientRequisites))
	assert.False(t, Baseline(RoleManager).Has(CapEditProjectClientRequisites))
}

// Capabilities absent from an override map inherit the baseline;
// capabilities present take the override value regardless of baseline.
func TestOverrideScoping(t *testing.T) {
	for _, role := range Roles() {
		for _, pr := range ProjectRoles() {
			projectRole := pr
			subject := Subject{UserID: 1, CompanyID: 1, Role: role, ProjectRole: &projectRole}
			effective := Effective(subject)
			base := Baseline(role)
			override := ProjectOverride(pr)
			for c := Capability(0); c < NumCapabilities; c++ {
				if override.Defines(c) {
					assert.Equal(t, override.Value(c), effective.Has(c),
						"%s/%s: %s should take the override value", role, pr, c)
				} else {
					assert.Equal(t, base.Has(c), effective.Has(c),
						"%s/%s: %s should inherit the baseline", role, pr, c)
				}
			}
		}
	}
}

func TestBaselineUnknownRoleDeniesEverything(t *testing.T) {
	set := Baseline(Role("INTERN"))
	for c := Capability(0); c < NumCapabilities; c++ {
		assert.False(t, set.Has(c))
	}
}
