package finance

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/shared"
)

type mockRepository struct {
	entries map[int64]*Entry
	nextID  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{entries: make(map[int64]*Entry), nextID: 1}
}

func (m *mockRepository) ListEntries(ctx context.Context, projectID int64) ([]Entry, error) {
	var out []Entry
	for id := int64(1); id < m.nextID; id++ {
		if e, ok := m.entries[id]; ok && e.ProjectID == projectID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockRepository) GetEntry(ctx context.Context, projectID, id int64) (*Entry, error) {
	e, ok := m.entries[id]
	if !ok || e.ProjectID != projectID {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (m *mockRepository) CreateEntry(ctx context.Context, e Entry) (*Entry, error) {
	e.ID = m.nextID
	m.nextID++
	m.entries[e.ID] = &e
	return &e, nil
}

func (m *mockRepository) UpdateEntry(ctx context.Context, projectID, id, amountCents int64, description string, occurredAt time.Time) error {
	e, err := m.GetEntry(ctx, projectID, id)
	if err != nil {
		return err
	}
	e.AmountCents, e.Description, e.OccurredAt = amountCents, description, occurredAt
	return nil
}

func (m *mockRepository) DeleteEntry(ctx context.Context, projectID, id int64) error {
	if _, err := m.GetEntry(ctx, projectID, id); err != nil {
		return err
	}
	delete(m.entries, id)
	return nil
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12,345.67", FormatAmount(1234567))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "-1.00", FormatAmount(-100))
}

func TestCreateEntryValidation(t *testing.T) {
	service := NewService(newMockRepository())
	subject := authz.Subject{UserID: 10, CompanyID: 1, Role: authz.RoleManager}

	_, err := service.CreateEntry(context.Background(), subject, 1, Entry{Kind: Kind("REFUND"), AmountCents: 100, Currency: "EUR"})
	assert.Error(t, err)

	_, err = service.CreateEntry(context.Background(), subject, 1, Entry{Kind: KindIncome, AmountCents: 0, Currency: "EUR"})
	assert.Error(t, err)

	_, err = service.CreateEntry(context.Background(), subject, 1, Entry{Kind: KindIncome, AmountCents: 100, Currency: "EURO"})
	assert.Error(t, err)

	created, err := service.CreateEntry(context.Background(), subject, 1, Entry{Kind: KindIncome, AmountCents: 100, Currency: "eur"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", created.Currency)
	assert.Equal(t, int64(10), created.CreatorID)
	assert.False(t, created.OccurredAt.IsZero())
}

func TestListEntriesSummaryOverVisibleRows(t *testing.T) {
	service := NewService(newMockRepository())
	manager := authz.Subject{UserID: 10, CompanyID: 1, Role: authz.RoleManager}
	other := authz.Subject{UserID: 20, CompanyID: 1, Role: authz.RoleManager}

	_, err := service.CreateEntry(context.Background(), manager, 1, Entry{Kind: KindIncome, AmountCents: 50000, Currency: "USD"})
	require.NoError(t, err)
	_, err = service.CreateEntry(context.Background(), manager, 1, Entry{Kind: KindExpense, AmountCents: 12500, Currency: "USD"})
	require.NoError(t, err)
	_, err = service.CreateEntry(context.Background(), other, 1, Entry{Kind: KindIncome, AmountCents: 99900, Currency: "USD"})
	require.NoError(t, err)

	entries, sum, err := service.ListEntries(context.Background(), authz.Subject{UserID: 10, CompanyID: 1, Role: authz.RoleUser}, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int64(50000), sum.IncomeCents)
	assert.Equal(t, int64(12500), sum.ExpenseCents)
	assert.Equal(t, int64(37500), sum.BalanceCents())
}

func TestExportCSV(t *testing.T) {
	service := NewService(newMockRepository())
	subject := authz.Subject{UserID: 10, CompanyID: 1, Role: authz.RoleOwner}

	occurred := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	_, err := service.CreateEntry(context.Background(), subject, 1, Entry{Kind: KindExpense, AmountCents: 1234567, Currency: "USD", Description: "venue rental", OccurredAt: occurred})
	require.NoError(t, err)

	data, err := service.ExportCSV(context.Background(), subject, 1)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,kind,amount,currency,description", lines[0])
	assert.Contains(t, lines[1], "2026-03-14")
	assert.Contains(t, lines[1], `"12,345.67"`)
}
