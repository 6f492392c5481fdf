package authz

// Subject is the authorization-time view of an actor. It is built
// fresh per request by the Resolver and never cached across requests,
// because role and membership can change between calls.
type Subject struct {
	UserID    int64
	CompanyID int64
	Role      Role

	// ProjectRole and IsProjectOwner are set only when the subject was
	// resolved against a project and a membership row was found.
	ProjectRole    *ProjectRole
	IsProjectOwner bool
}

// HasProjectRole reports whether the subject carries a project role.
func (s Subject) HasProjectRole() bool {
	return s.ProjectRole != nil
}
