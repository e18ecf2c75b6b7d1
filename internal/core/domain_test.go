package core

import (
	"errors"
	"testing"
)

func TestKindValidate(t *testing.T) {
	if err := Income.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Expense.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Kind("transfer").Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Description: "salary",
		Amount:      Money{Cents: 100000},
		Kind:        Income,
		Category:    PrimaryIncomeCategory,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Zero is a legal value; the kind carries the sign.
	zero := good
	zero.Amount = Money{}
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero value should validate, got %v", err)
	}

	cases := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{Description: " ", Amount: Money{Cents: 1}, Kind: Income}, ErrEmptyDescription},
		{Transaction{Description: "a", Amount: Money{Cents: -1}, Kind: Income}, ErrInvalidAmount},
		{Transaction{Description: "a", Amount: Money{Cents: 1}, Kind: Kind("bad")}, ErrInvalidKind},
	}
	for i, tc := range cases {
		if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{
		Name:     "new car",
		Target:   Money{Cents: 120000},
		Deadline: "2027-05-01",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		g    Goal
		want error
	}{
		{Goal{Name: "", Target: Money{Cents: 1}, Deadline: "2027-05-01"}, ErrEmptyName},
		{Goal{Name: "x", Target: Money{Cents: 0}, Deadline: "2027-05-01"}, ErrInvalidTarget},
		{Goal{Name: "x", Target: Money{Cents: -5}, Deadline: "2027-05-01"}, ErrInvalidTarget},
		{Goal{Name: "x", Target: Money{Cents: 1}, Deadline: "05/01/2027"}, ErrInvalidDeadline},
		{Goal{Name: "x", Target: Money{Cents: 1}, Deadline: ""}, ErrInvalidDeadline},
	}
	for i, tc := range cases {
		if err := tc.g.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestIconFor(t *testing.T) {
	if got := IconFor("travel"); got != "✈️" {
		t.Fatalf("travel icon = %q", got)
	}
	if got := IconFor("unknown-category"); got != "🎯" {
		t.Fatalf("unknown category should map to default icon, got %q", got)
	}
	if got := IconFor(""); got != "🎯" {
		t.Fatalf("empty category should map to default icon, got %q", got)
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(ErrInsufficientFreeBalance) {
		t.Fatalf("insufficient free balance should classify as validation")
	}
	if IsValidationError(ErrGoalNotFound) {
		t.Fatalf("not-found is not a validation error")
	}
	if IsValidationError(errors.New("boom")) {
		t.Fatalf("arbitrary errors are not validation errors")
	}
}
