package authz

import "fmt"

// The tables below are authored per role, per capability. Every tenant
// role must assign every capability explicitly; a missing entry is a
// defect caught by the init check, not an implicit false. Project role
// overrides are deliberately partial: an absent capability inherits
// the tenant-wide value.

var baselineGrants = map[Role]map[Capability]bool{
	RoleOwner: {
		CapViewUsers:       true,
		CapCreateUsers:     true,
		CapEditUsers:       true,
		CapDeleteUsers:     true,
		CapChangeUserRoles: true,

		CapViewCompanySettings: true,
		CapEditCompanySettings: true,
		CapManageBilling:       true,

		CapViewProjects:                true,
		CapCreateProjects:              true,
		CapEditProjects:                true,
		CapDeleteProjects:              true,
		CapArchiveProjects:             true,
		CapManageProjectMembers:        true,
		CapEditProjectClientRequisites: true,

		CapViewTasks:   true,
		CapCreateTasks: true,
		CapEditTasks:   true,
		CapDeleteTasks: true,
		CapAssignTasks: true,

		CapViewDocuments:   true,
		CapCreateDocuments: true,
		CapEditDocuments:   true,
		CapDeleteDocuments: true,
		CapShareDocuments:  true,

		CapViewFinances:         true,
		CapCreateFinanceEntries: true,
		CapEditFinances:         true,
		CapDeleteFinanceEntries: true,
		CapExportFinances:       true,

		CapViewEstimates:    true,
		CapCreateEstimates:  true,
		CapEditEstimates:    true,
		CapApproveEstimates: true,

		CapViewApprovals:    true,
		CapSubmitApprovals:  true,
		CapResolveApprovals: true,

		CapViewReports:     true,
		CapGenerateReports: true,
		CapScheduleReports: true,

		CapViewSystemSettings: true,
		CapEditSystemSettings: true,
		CapManageIntegrations: true,
	},
	RoleAdmin: {
		CapViewUsers:       true,
		CapCreateUsers:     true,
		CapEditUsers:       true,
		CapDeleteUsers:     false,
		CapChangeUserRoles: false,

		CapViewCompanySettings: true,
		CapEditCompanySettings: true,
		CapManageBilling:       true,

		CapViewProjects:                true,
		CapCreateProjects:              true,
		CapEditProjects:                true,
		CapDeleteProjects:              true,
		CapArchiveProjects:             true,
		CapManageProjectMembers:        true,
		CapEditProjectClientRequisites: true,

		CapViewTasks:   true,
		CapCreateTasks: true,
		CapEditTasks:   true,
		CapDeleteTasks: true,
		CapAssignTasks: true,

		CapViewDocuments:   true,
		CapCreateDocuments: true,
		CapEditDocuments:   true,
		CapDeleteDocuments: true,
		CapShareDocuments:  true,

		CapViewFinances:         true,
		CapCreateFinanceEntries: true,
		CapEditFinances:         true,
		CapDeleteFinanceEntries: true,
		CapExportFinances:       true,

		CapViewEstimates:    true,
		CapCreateEstimates:  true,
		CapEditEstimates:    true,
		CapApproveEstimates: true,

		CapViewApprovals:    true,
		CapSubmitApprovals:  true,
		CapResolveApprovals: true,

		CapViewReports:     true,
		CapGenerateReports: true,
		CapScheduleReports: true,

		CapViewSystemSettings: true,
		CapEditSystemSettings: false,
		CapManageIntegrations: true,
	},
	RoleManager: {
		CapViewUsers:       true,
		CapCreateUsers:     false,
		CapEditUsers:       false,
		CapDeleteUsers:     false,
		CapChangeUserRoles: false,

		CapViewCompanySettings: true,
		CapEditCompanySettings: false,
		CapManageBilling:       false,

		CapViewProjects:                true,
		CapCreateProjects:              true,
		CapEditProjects:                true,
		CapDeleteProjects:              false,
		CapArchiveProjects:             true,
		CapManageProjectMembers:        true,
		CapEditProjectClientRequisites: false,

		CapViewTasks:   true,
		CapCreateTasks: true,
		CapEditTasks:   true,
		CapDeleteTasks: true,
		CapAssignTasks: true,

		CapViewDocuments:   true,
		CapCreateDocuments: true,
		CapEditDocuments:   true,
		CapDeleteDocuments: false,
		CapShareDocuments:  true,

		CapViewFinances:         true,
		CapCreateFinanceEntries: false,
		CapEditFinances:         false,
		CapDeleteFinanceEntries: false,
		CapExportFinances:       true,

		CapViewEstimates:    true,
		CapCreateEstimates:  true,
		CapEditEstimates:    true,
		CapApproveEstimates: false,

		CapViewApprovals:    true,
		CapSubmitApprovals:  true,
		CapResolveApprovals: false,

		CapViewReports:     true,
		CapGenerateReports: true,
		CapScheduleReports: false,

		CapViewSystemSettings: false,
		CapEditSystemSettings: false,
		CapManageIntegrations: false,
	},
	RoleUser: {
		CapViewUsers:       false,
		CapCreateUsers:     false,
		CapEditUsers:       false,
		CapDeleteUsers:     false,
		CapChangeUserRoles: false,

		CapViewCompanySettings: false,
		CapEditCompanySettings: false,
		CapManageBilling:       false,

		CapViewProjects:    true,
		CapCreateProjects:  false,
		CapEditProjects:    false,
		CapDeleteProjects:  false,
		CapArchiveProjects: false,
		CapManageProjectMembers: false,
		// Granted to USER but not MANAGER. Inherited business policy;
		// pinned by a test so any change has to be deliberate.
		CapEditProjectClientRequisites: true,

		CapViewTasks:   true,
		CapCreateTasks: true,
		CapEditTasks:   true,
		CapDeleteTasks: false,
		CapAssignTasks: false,

		CapViewDocuments:   true,
		CapCreateDocuments: true,
		CapEditDocuments:   false,
		CapDeleteDocuments: false,
		CapShareDocuments:  false,

		CapViewFinances:         false,
		CapCreateFinanceEntries: false,
		CapEditFinances:         false,
		CapDeleteFinanceEntries: false,
		CapExportFinances:       false,

		CapViewEstimates:    true,
		CapCreateEstimates:  false,
		CapEditEstimates:    false,
		CapApproveEstimates: false,

		CapViewApprovals:    true,
		CapSubmitApprovals:  true,
		CapResolveApprovals: false,

		CapViewReports:     true,
		CapGenerateReports: false,
		CapScheduleReports: false,

		CapViewSystemSettings: false,
		CapEditSystemSettings: false,
		CapManageIntegrations: false,
	},
}

var overrideGrants = map[ProjectRole]map[Capability]bool{
	ProjectRoleOwner: {
		CapEditProjects:         true,
		CapArchiveProjects:      true,
		CapManageProjectMembers: true,
		CapCreateTasks:          true,
		CapEditTasks:            true,
		CapDeleteTasks:          true,
		CapAssignTasks:          true,
		CapCreateDocuments:      true,
		CapEditDocuments:        true,
		CapDeleteDocuments:      true,
		CapShareDocuments:       true,
		CapViewFinances:         true,
		CapCreateEstimates:      true,
		CapEditEstimates:        true,
		CapGenerateReports:      true,
		CapSubmitApprovals:      true,
	},
	ProjectRoleManager: {
		CapEditProjects:         true,
		CapManageProjectMembers: true,
		CapCreateTasks:          true,
		CapEditTasks:            true,
		CapDeleteTasks:          true,
		CapAssignTasks:          true,
		CapCreateDocuments:      true,
		CapEditDocuments:        true,
		CapShareDocuments:       true,
		CapCreateEstimates:      true,
		CapEditEstimates:        true,
		CapGenerateReports:      true,
	},
	ProjectRoleMember: {
		CapCreateTasks:     true,
		CapEditTasks:       true,
		CapCreateDocuments: true,
		CapSubmitApprovals: true,
	},
	ProjectRoleViewer: {
		CapEditProjects:         false,
		CapManageProjectMembers: false,
		CapCreateTasks:          false,
		CapEditTasks:            false,
		CapDeleteTasks:          false,
		CapAssignTasks:          false,
		CapCreateDocuments:      false,
		CapEditDocuments:        false,
		CapDeleteDocuments:      false,
		CapShareDocuments:       false,
		CapCreateFinanceEntries: false,
		CapEditFinances:         false,
		CapCreateEstimates:      false,
		CapEditEstimates:        false,
		CapSubmitApprovals:      false,
		CapGenerateReports:      false,
	},
}

// Override is a compiled partial PermissionSet: value[c] applies only
// where mask[c] is set; everything else inherits the baseline.
type Override struct {
	mask  [NumCapabilities]bool
	value [NumCapabilities]bool
}

// Defines reports whether the override assigns a value for c.
func (o Override) Defines(c Capability) bool {
	if c < 0 || c >= NumCapabilities {
		return false
	}
	return o.mask[c]
}

// Value returns the overridden value for c. Only meaningful when
// Defines(c) is true.
func (o Override) Value(c Capability) bool {
	if c < 0 || c >= NumCapabilities {
		return false
	}
	return o.value[c]
}

var (
	baselines = make(map[Role]PermissionSet, len(baselineGrants))
	overrides = make(map[ProjectRole]Override, len(overrideGrants))
)

func init() {
	for _, role := range Roles() {
		grants, ok := baselineGrants[role]
		if !ok {
			panic(fmt.Sprintf("authz: baseline table missing role %s", role))
		}
		baselines[role] = compileBaseline(role, grants)
	}
	for _, pr := range ProjectRoles() {
		grants, ok := overrideGrants[pr]
		if !ok {
			panic(fmt.Sprintf("authz: override table missing project role %s", pr))
		}
		overrides[pr] = compileOverride(pr, grants)
	}
	for c := Capability(0); c < NumCapabilities; c++ {
		if capabilityNames[c] == "" {
			panic(fmt.Sprintf("authz: capability %d has no name", c))
		}
	}
}

func compileBaseline(role Role, grants map[Capability]bool) PermissionSet {
	var set PermissionSet
	for c, v := range grants {
		if c < 0 || c >= NumCapabilities {
			panic(fmt.Sprintf("authz: role %s grants unknown capability %d", role, c))
		}
		set[c] = v
	}
	// Totality: every capability must be authored explicitly.
	for c := Capability(0); c < NumCapabilities; c++ {
		if _, ok := grants[c]; !ok {
			panic(fmt.Sprintf("authz: role %s missing capability %s", role, c))
		}
	}
	return set
}

func compileOverride(pr ProjectRole, grants map[Capability]bool) Override {
	var o Override
	for c, v := range grants {
		if c < 0 || c >= NumCapabilities {
			panic(fmt.Sprintf("authz: project role %s overrides unknown capability %d", pr, c))
		}
		o.mask[c] = true
		o.value[c] = v
	}
	return o
}

// Baseline returns the tenant-wide PermissionSet for role. Unknown
// roles get the zero set: deny everything rather than guess.
func Baseline(role Role) PermissionSet {
	set, ok := baselines[role]
	if !ok {
		return PermissionSet{}
	}
	return set
}

// ProjectOverride returns the partial override for a project role.
// Unknown roles get the empty override (inherit everything).
func ProjectOverride(pr ProjectRole) Override {
	o, ok := overrides[pr]
	if !ok {
		return Override{}
	}
	return o
}
