package documents

import "time"

// Document is file metadata attached to a project. Upload and storage
// of the bytes themselves are handled elsewhere; this module owns the
// metadata and its access rules.
type Document struct {
	ID          int64
	ProjectID   int64
	Name        string
	StorageKey  string
	ContentType string
	Shared      bool
	CreatorID   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerIDs implements authz.Owned for list scoping. Documents have no
// assignee.
func (d Document) OwnerIDs() (int64, int64) {
	return d.CreatorID, 0
}
