package services

import (
	"context"
	"fmt"

	"mygoal/internal/core"
	"mygoal/internal/storage"
)

// ReportService assembles the derived aggregates. Every call reads fresh
// from the store; there is no cache to invalidate.
type ReportService struct {
	storage *storage.Repository
}

func NewReportService(storage *storage.Repository) *ReportService {
	return &ReportService{storage: storage}
}

// FinancialSummary computes the current position over the full ledger and
// goal set.
func (s *ReportService) FinancialSummary(ctx context.Context) (core.FinancialSummary, error) {
	income, err := s.storage.SumByKind(ctx, core.Income)
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("financial summary: %w", err)
	}
	expense, err := s.storage.SumByKind(ctx, core.Expense)
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("financial summary: %w", err)
	}
	allocated, err := s.storage.SumAllocated(ctx)
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("financial summary: %w", err)
	}
	monthlyCost, err := s.storage.MonthlyCost(ctx)
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("financial summary: %w", err)
	}

	return core.BuildSummary(income, expense, allocated, monthlyCost), nil
}

// HistoricalAverages computes the per-month income average and the
// allocation pace since the first recorded transaction.
func (s *ReportService) HistoricalAverages(ctx context.Context) (core.HistoricalAverages, error) {
	avgIncome, err := s.storage.AvgMonthlyIncome(ctx)
	if err != nil {
		return core.HistoricalAverages{}, fmt.Errorf("historical averages: %w", err)
	}
	months, err := s.storage.ActivityMonths(ctx)
	if err != nil {
		return core.HistoricalAverages{}, fmt.Errorf("historical averages: %w", err)
	}
	allocated, err := s.storage.SumAllocated(ctx)
	if err != nil {
		return core.HistoricalAverages{}, fmt.Errorf("historical averages: %w", err)
	}

	return core.HistoricalAverages{
		AvgMonthlyIncome:    avgIncome,
		AvgMonthlyAllocated: core.AverageAllocated(allocated, months),
	}, nil
}
