package authz

// Capability is a single named yes/no permission. The vocabulary is
// closed: referencing a capability that does not exist is a compile
// error, not a silent false.
type Capability int

// Capabilities grouped by domain. The grouping is documentation only;
// the evaluator treats them as a flat set.
const (
	// Users
	CapViewUsers Capability = iota
	CapCreateUsers
	CapEditUsers
	CapDeleteUsers
	CapChangeUserRoles

	// Company
	CapViewCompanySettings
	CapEditCompanySettings
	CapManageBilling

	// Projects
	CapViewProjects
	CapCreateProjects
	CapEditProjects
	CapDeleteProjects
	CapArchiveProjects
	CapManageProjectMembers
	CapEditProjectClientRequisites

	// Tasks
	CapViewTasks
	CapCreateTasks
	CapEditTasks
	CapDeleteTasks
	CapAssignTasks

	// Documents
	CapViewDocuments
	CapCreateDocuments
	CapEditDocuments
	CapDeleteDocuments
	CapShareDocuments

	// Finance
	CapViewFinances
	CapCreateFinanceEntries
	CapEditFinances
	CapDeleteFinanceEntries
	CapExportFinances

	// Estimates
	CapViewEstimates
	CapCreateEstimates
	CapEditEstimates
	CapApproveEstimates

	// Approvals
	CapViewApprovals
	CapSubmitApprovals
	CapResolveApprovals

	// Reports
	CapViewReports
	CapGenerateReports
	CapScheduleReports

	// System
	CapViewSystemSettings
	CapEditSystemSettings
	CapManageIntegrations

	// NumCapabilities bounds the vocabulary; keep it last.
	NumCapabilities
)

var capabilityNames = [NumCapabilities]string{
	CapViewUsers:       "canViewUsers",
	CapCreateUsers:     "canCreateUsers",
	CapEditUsers:       "canEditUsers",
	CapDeleteUsers:     "canDeleteUsers",
	CapChangeUserRoles: "canChangeUserRoles",

	CapViewCompanySettings: "canViewCompanySettings",
	CapEditCompanySettings: "canEditCompanySettings",
	CapManageBilling:       "canManageBilling",

	CapViewProjects:                "canViewProjects",
	CapCreateProjects:              "canCreateProjects",
	CapEditProjects:                "canEditProjects",
	CapDeleteProjects:              "canDeleteProjects",
	CapArchiveProjects:             "canArchiveProjects",
	CapManageProjectMembers:        "canManageProjectMembers",
	CapEditProjectClientRequisites: "canEditProjectClientRequisites",

	CapViewTasks:   "canViewTasks",
	CapCreateTasks: "canCreateTasks",
	CapEditTasks:   "canEditTasks",
	CapDeleteTasks: "canDeleteTasks",
	CapAssignTasks: "canAssignTasks",

	CapViewDocuments:   "canViewDocuments",
	CapCreateDocuments: "canCreateDocuments",
	CapEditDocuments:   "canEditDocuments",
	CapDeleteDocuments: "canDeleteDocuments",
	CapShareDocuments:  "canShareDocuments",

	CapViewFinances:         "canViewFinances",
	CapCreateFinanceEntries: "canCreateFinanceEntries",
	CapEditFinances:         "canEditFinances",
	CapDeleteFinanceEntries: "canDeleteFinanceEntries",
	CapExportFinances:       "canExportFinances",

	CapViewEstimates:    "canViewEstimates",
	CapCreateEstimates:  "canCreateEstimates",
	CapEditEstimates:    "canEditEstimates",
	CapApproveEstimates: "canApproveEstimates",

	CapViewApprovals:    "canViewApprovals",
	CapSubmitApprovals:  "canSubmitApprovals",
	CapResolveApprovals: "canResolveApprovals",

	CapViewReports:     "canViewReports",
	CapGenerateReports: "canGenerateReports",
	CapScheduleReports: "canScheduleReports",

	CapViewSystemSettings: "canViewSystemSettings",
	CapEditSystemSettings: "canEditSystemSettings",
	CapManageIntegrations: "canManageIntegrations",
}

// String returns the canonical capability name used in API payloads.
func (c Capability) String() string {
	if c < 0 || c >= NumCapabilities {
		return "unknown"
	}
	return capabilityNames[c]
}

// Capabilities lists the full vocabulary in declaration order.
func Capabilities() []Capability {
	caps := make([]Capability, NumCapabilities)
	for i := range caps {
		caps[i] = Capability(i)
	}
	return caps
}
