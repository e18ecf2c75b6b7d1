// Package services orchestrates the engine's operations across the SQLite
// store and the AMQP event publisher.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mygoal/internal/amqp"
	"mygoal/internal/core"
	"mygoal/internal/storage"
)

// LedgerService records transactions and manages the monthly-cost setting.
type LedgerService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.Repository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// RecordTransaction validates and appends a ledger entry, then publishes a
// recorded event. A broker failure does not fail the request; the entry is
// already durable.
func (s *LedgerService) RecordTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if t.Category == "" {
		t.Category = core.DefaultCategory
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.AppendTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("record transaction: %w", err)
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishTransactionRecorded(ctx, id, string(t.Kind), t.Amount.Cents); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction event",
				"id", id, "error", err)
		}
	}

	return id, nil
}

// CurrentMonthIncome lists the primary-income entries for the month
// containing now.
func (s *LedgerService) CurrentMonthIncome(ctx context.Context, now time.Time) ([]core.Transaction, error) {
	entries, err := s.storage.CurrentMonthIncome(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("current month income: %w", err)
	}
	return entries, nil
}

// SetMonthlyCost replaces the fixed monthly obligation, last-write-wins.
func (s *LedgerService) SetMonthlyCost(ctx context.Context, value core.Money) error {
	if value.Cents < 0 {
		return core.ErrInvalidAmount
	}
	if err := s.storage.SetMonthlyCost(ctx, value); err != nil {
		return fmt.Errorf("set monthly cost: %w", err)
	}
	return nil
}
