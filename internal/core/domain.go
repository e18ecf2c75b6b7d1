package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// Layouts for the two persisted date formats: goal deadlines carry no time
// component, ledger timestamps are assigned by SQLite's CURRENT_TIMESTAMP.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// PrimaryIncomeCategory marks ledger entries that count as real income for
// the current-month income view. Corrections and withdrawals booked with
// kind=income use any other category and are excluded.
const (
	PrimaryIncomeCategory = "income"
	DefaultCategory       = "general"
	FixedCostCategory     = "fixed"
)

type (
	// Kind determines the sign of a transaction's effect on the balance.
	// Values themselves are always non-negative.
	Kind string

	Transaction struct {
		ID          int64
		Description string
		Amount      Money
		Kind        Kind
		Category    string
		CreatedAt   time.Time
	}

	// Goal is a named savings target with a running balance. Deadline and
	// CreatedAt are kept in their stored string form so that malformed
	// rows degrade at projection time instead of failing the read.
	Goal struct {
		ID        int64
		Name      string
		Current   Money
		Target    Money
		Deadline  string // DateLayout
		Category  string
		Icon      string
		CreatedAt string // TimestampLayout
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty goal name")
	ErrInvalidTarget    = errors.New("goal target must be positive")
	ErrInvalidDeadline  = errors.New("invalid deadline date")

	ErrGoalNotFound            = errors.New("goal not found")
	ErrInsufficientFreeBalance = errors.New("insufficient free balance")
	ErrInsufficientGoalBalance = errors.New("insufficient goal balance")
)

// IsValidationError reports whether err is a user-input rejection rather
// than a storage or internal failure.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount, ErrInvalidKind, ErrEmptyDescription,
		ErrEmptyName, ErrInvalidTarget, ErrInvalidDeadline,
		ErrInsufficientFreeBalance, ErrInsufficientGoalBalance,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return t.Kind.Validate()
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	if _, err := time.Parse(DateLayout, g.Deadline); err != nil {
		return ErrInvalidDeadline
	}
	return nil
}

const DefaultGoalCategory = "other"

// goalIcons maps a goal category to its display icon. The icon is fixed at
// creation time and never recomputed on edit.
var goalIcons = map[string]string{
	"investment": "📈",
	"travel":     "✈️",
	"education":  "📚",
	"home":       "🏠",
	"leisure":    "🎡",
	"emergency":  "🛡️",
	"other":      "🎯",
}

// IconFor returns the icon for a goal category, falling back to the
// default icon for unrecognized categories.
func IconFor(category string) string {
	if icon, ok := goalIcons[category]; ok {
		return icon
	}
	return goalIcons[DefaultGoalCategory]
}
