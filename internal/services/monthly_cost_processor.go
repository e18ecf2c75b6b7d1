package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mygoal/internal/core"
	"mygoal/internal/storage"
)

// MonthlyCostProcessor books the configured fixed monthly cost into the
// ledger as an expense, at most once per calendar month. The worker runs
// it on a schedule; the dueness check makes repeated runs idempotent.
type MonthlyCostProcessor struct {
	storage *storage.Repository
	ledger  *LedgerService
}

func NewMonthlyCostProcessor(storage *storage.Repository, ledger *LedgerService) *MonthlyCostProcessor {
	return &MonthlyCostProcessor{
		storage: storage,
		ledger:  ledger,
	}
}

// ProcessMonthlyCost books the fixed cost for the month containing now.
// Returns true when an expense was actually written.
func (p *MonthlyCostProcessor) ProcessMonthlyCost(ctx context.Context, now time.Time) (bool, error) {
	if p.storage == nil || p.ledger == nil {
		return false, fmt.Errorf("processor not properly initialized")
	}

	cost, err := p.storage.MonthlyCost(ctx)
	if err != nil {
		return false, fmt.Errorf("read monthly cost: %w", err)
	}
	if cost.Cents == 0 {
		slog.DebugContext(ctx, "No monthly cost configured, nothing to book")
		return false, nil
	}

	booked, err := p.storage.HasFixedCostForMonth(ctx, now)
	if err != nil {
		return false, fmt.Errorf("check month booking: %w", err)
	}
	if booked {
		slog.DebugContext(ctx, "Monthly cost already booked",
			"month", now.UTC().Format("2006-01"))
		return false, nil
	}

	id, err := p.ledger.RecordTransaction(ctx, core.Transaction{
		Description: "Fixed monthly cost " + now.UTC().Format("2006-01"),
		Amount:      cost,
		Kind:        core.Expense,
		Category:    core.FixedCostCategory,
	})
	if err != nil {
		return false, fmt.Errorf("book monthly cost: %w", err)
	}

	slog.InfoContext(ctx, "Monthly cost booked",
		"transaction_id", id,
		"amount_cents", cost.Cents,
		"month", now.UTC().Format("2006-01"))

	return true, nil
}
