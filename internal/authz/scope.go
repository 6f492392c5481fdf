package authz

// Owned is implemented by list records that carry owner/creator
// facts. AssigneeID may be zero when the record has no assignee.
type Owned interface {
	OwnerIDs() (creatorID, assigneeID int64)
}

// ScopeRecords returns the subset of records the subject may see. It
// is a fallback for when the store cannot pre-filter the query; the
// caller must already have scoped records to the subject's company.
//
// OWNER and ADMIN see everything, and the input slice is returned
// unchanged. MANAGER currently also sees everything.
// TODO: product decision pending on scoping MANAGER to the projects
// they manage.
func ScopeRecords[T Owned](records []T, subject Subject) []T {
	switch subject.Role {
	case RoleOwner, RoleAdmin, RoleManager:
		return records
	case RoleUser:
		scoped := make([]T, 0, len(records))
		for _, rec := range records {
			creatorID, assigneeID := rec.OwnerIDs()
			if creatorID == subject.UserID || assigneeID == subject.UserID {
				scoped = append(scoped, rec)
			}
		}
		return scoped
	default:
		// Unknown role: fail closed.
		return nil
	}
}
