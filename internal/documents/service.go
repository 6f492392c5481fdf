package documents

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/meridian-pm/meridian/internal/authz"
)

// DocumentRepository defines persistence operations the service needs.
type DocumentRepository interface {
	ListDocuments(ctx context.Context, projectID int64) ([]Document, error)
	GetDocument(ctx context.Context, projectID, id int64) (*Document, error)
	CreateDocument(ctx context.Context, d Document) (*Document, error)
	RenameDocument(ctx context.Context, projectID, id int64, name string) error
	SetShared(ctx context.Context, projectID, id int64, shared bool) error
	DeleteDocument(ctx context.Context, projectID, id int64) error
}

// Service orchestrates document metadata management.
type Service struct {
	repo DocumentRepository
}

// NewService constructs a Service.
func NewService(repo DocumentRepository) *Service {
	return &Service{repo: repo}
}

// ListDocuments returns the project's documents visible to the subject.
// Documents marked shared are visible regardless of creator, so the
// ownership scope filter is applied to the unshared remainder only.
func (s *Service) ListDocuments(ctx context.Context, subject authz.Subject, projectID int64) ([]Document, error) {
	list, err := s.repo.ListDocuments(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var sharedDocs, ownedDocs []Document
	for _, d := range list {
		if d.Shared {
			sharedDocs = append(sharedDocs, d)
		} else {
			ownedDocs = append(ownedDocs, d)
		}
	}
	return append(sharedDocs, authz.ScopeRecords(ownedDocs, subject)...), nil
}

// GetDocument fetches a single document.
func (s *Service) GetDocument(ctx context.Context, projectID, id int64) (*Document, error) {
	return s.repo.GetDocument(ctx, projectID, id)
}

// CreateDocument registers metadata for an uploaded file. A fresh
// storage key is minted here; the upload pipeline stores the bytes
// under it.
func (s *Service) CreateDocument(ctx context.Context, subject authz.Subject, projectID int64, name, contentType string) (*Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("documents: name required")
	}
	return s.repo.CreateDocument(ctx, Document{
		ProjectID:   projectID,
		Name:        name,
		StorageKey:  uuid.NewString(),
		ContentType: contentType,
		CreatorID:   subject.UserID,
	})
}

// RenameDocument updates the display name.
func (s *Service) RenameDocument(ctx context.Context, projectID, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("documents: name required")
	}
	return s.repo.RenameDocument(ctx, projectID, id, name)
}

// ShareDocument toggles project-wide visibility.
func (s *Service) ShareDocument(ctx context.Context, projectID, id int64, shared bool) error {
	return s.repo.SetShared(ctx, projectID, id, shared)
}

// DeleteDocument removes document metadata.
func (s *Service) DeleteDocument(ctx context.Context, projectID, id int64) error {
	return s.repo.DeleteDocument(ctx, projectID, id)
}
