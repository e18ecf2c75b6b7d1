package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mygoal/internal/amqp"
	"mygoal/internal/core"
	"mygoal/internal/storage"
)

// GoalService is the goal lifecycle manager: create, list, project,
// allocate/withdraw, edit and delete.
type GoalService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewGoalService(storage *storage.Repository, amqpClient *amqp.Client) *GoalService {
	return &GoalService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Create validates and inserts a new goal with a zero balance. The icon is
// assigned from the category once, at creation.
func (s *GoalService) Create(ctx context.Context, name string, target core.Money, deadline, category string) (core.Goal, error) {
	if category == "" {
		category = core.DefaultGoalCategory
	}
	g := core.Goal{
		Name:     strings.TrimSpace(name),
		Target:   target,
		Deadline: deadline,
		Category: category,
		Icon:     core.IconFor(category),
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	id, err := s.storage.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}

	// Read back for the server-assigned creation timestamp
	created, err := s.storage.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("load created goal: %w", err)
	}
	return created, nil
}

func (s *GoalService) List(ctx context.Context) ([]core.Goal, error) {
	goals, err := s.storage.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// Metrics projects one goal's pace as of now. Malformed rows degrade to a
// safe default record instead of failing.
func (s *GoalService) Metrics(ctx context.Context, id int64, now time.Time) (core.MetricsResult, error) {
	g, err := s.storage.GetGoal(ctx, id)
	if err != nil {
		return core.MetricsResult{}, err
	}

	result := core.ComputeGoalMetrics(g, now)
	if result.Degraded {
		slog.WarnContext(ctx, "Goal metrics degraded",
			"goal_id", id,
			"reason", result.Reason)
	}
	return result, nil
}

// AdjustBalance applies a signed delta to a goal balance. Allocations are
// rejected when they exceed the free balance, withdrawals when they would
// push the goal below zero; both checks are atomic with the update.
func (s *GoalService) AdjustBalance(ctx context.Context, id int64, delta core.Money) error {
	applied, err := s.storage.AdjustGoalBalance(ctx, id, delta)
	if err != nil {
		return fmt.Errorf("adjust goal balance: %w", err)
	}
	if !applied {
		return s.adjustRejection(ctx, id, delta)
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishGoalBalanceAdjusted(ctx, id, delta.Cents); err != nil {
			slog.ErrorContext(ctx, "Failed to publish goal event",
				"goal_id", id, "error", err)
		}
	}
	return nil
}

// adjustRejection explains why the conditional update matched no row.
func (s *GoalService) adjustRejection(ctx context.Context, id int64, delta core.Money) error {
	g, err := s.storage.GetGoal(ctx, id)
	if errors.Is(err, core.ErrGoalNotFound) {
		return core.ErrGoalNotFound
	}
	if err != nil {
		return fmt.Errorf("inspect rejected adjustment: %w", err)
	}
	if delta.Cents < 0 && g.Current.Cents+delta.Cents < 0 {
		return core.ErrInsufficientGoalBalance
	}
	return core.ErrInsufficientFreeBalance
}

// UpdateDetails replaces name and target. Category and icon are untouched.
func (s *GoalService) UpdateDetails(ctx context.Context, id int64, name string, target core.Money) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}
	if target.Cents <= 0 {
		return core.ErrInvalidTarget
	}
	return s.storage.UpdateGoalDetails(ctx, id, name, target)
}

// Delete removes the goal permanently. Its balance is not transferred back
// to the free balance; the allocated total simply shrinks.
func (s *GoalService) Delete(ctx context.Context, id int64) error {
	return s.storage.DeleteGoal(ctx, id)
}
