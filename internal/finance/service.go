package finance

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"time"

	"github.com/meridian-pm/meridian/internal/authz"
)

// EntryRepository defines persistence operations the service needs.
type EntryRepository interface {
	ListEntries(ctx context.Context, projectID int64) ([]Entry, error)
	GetEntry(ctx context.Context, projectID, id int64) (*Entry, error)
	CreateEntry(ctx context.Context, e Entry) (*Entry, error)
	UpdateEntry(ctx context.Context, projectID, id, amountCents int64, description string, occurredAt time.Time) error
	DeleteEntry(ctx context.Context, projectID, id int64) error
}

// Service orchestrates project finance entries.
type Service struct {
	repo EntryRepository
}

// NewService constructs a Service.
func NewService(repo EntryRepository) *Service {
	return &Service{repo: repo}
}

// ListEntries returns the project's entries visible to the subject
// together with a summary over the visible rows.
func (s *Service) ListEntries(ctx context.Context, subject authz.Subject, projectID int64) ([]Entry, Summary, error) {
	list, err := s.repo.ListEntries(ctx, projectID)
	if err != nil {
		return nil, Summary{}, err
	}
	scoped := authz.ScopeRecords(list, subject)
	var sum Summary
	for _, e := range scoped {
		switch e.Kind {
		case KindIncome:
			sum.IncomeCents += e.AmountCents
		case KindExpense:
			sum.ExpenseCents += e.AmountCents
		}
	}
	return scoped, sum, nil
}

// CreateEntry validates and records a new entry.
func (s *Service) CreateEntry(ctx context.Context, subject authz.Subject, projectID int64, e Entry) (*Entry, error) {
	if !e.Kind.Valid() {
		return nil, errors.New("finance: unknown entry kind")
	}
	if e.AmountCents <= 0 {
		return nil, errors.New("finance: amount must be positive")
	}
	e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
	if len(e.Currency) != 3 {
		return nil, errors.New("finance: currency must be a 3-letter code")
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	e.ProjectID = projectID
	e.CreatorID = subject.UserID
	return s.repo.CreateEntry(ctx, e)
}

// UpdateEntry edits an existing entry.
func (s *Service) UpdateEntry(ctx context.Context, projectID, id, amountCents int64, description string, occurredAt time.Time) error {
	if amountCents <= 0 {
		return errors.New("finance: amount must be positive")
	}
	if occurredAt.IsZero() {
		return errors.New("finance: occurrence date required")
	}
	return s.repo.UpdateEntry(ctx, projectID, id, amountCents, strings.TrimSpace(description), occurredAt)
}

// DeleteEntry removes an entry.
func (s *Service) DeleteEntry(ctx context.Context, projectID, id int64) error {
	return s.repo.DeleteEntry(ctx, projectID, id)
}

// ExportCSV renders the subject's visible entries as CSV with
// human-readable amounts.
func (s *Service) ExportCSV(ctx context.Context, subject authz.Subject, projectID int64) ([]byte, error) {
	entries, _, err := s.ListEntries(ctx, subject, projectID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"date", "kind", "amount", "currency", "description"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		record := []string{
			e.OccurredAt.Format("2006-01-02"),
			string(e.Kind),
			FormatAmount(e.AmountCents),
			e.Currency,
			e.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
