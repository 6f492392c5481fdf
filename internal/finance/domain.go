package finance

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind classifies a finance entry.
type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

// Valid reports whether the kind is a known value.
func (k Kind) Valid() bool {
	switch k {
	case KindIncome, KindExpense:
		return true
	}
	return false
}

// Entry is a single money movement attached to a project. Amounts are
// stored in minor units (cents) to avoid float drift.
type Entry struct {
	ID          int64
	ProjectID   int64
	Kind        Kind
	AmountCents int64
	Currency    string
	Description string
	CreatorID   int64
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// OwnerIDs implements authz.Owned for list scoping. Entries have no
// assignee.
func (e Entry) OwnerIDs() (int64, int64) {
	return e.CreatorID, 0
}

// Summary aggregates entries of a project.
type Summary struct {
	IncomeCents  int64
	ExpenseCents int64
}

// BalanceCents is income minus expenses.
func (s Summary) BalanceCents() int64 {
	return s.IncomeCents - s.ExpenseCents
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders minor units as a grouped decimal string,
// e.g. 1234567 -> "12,345.67".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return printer.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
