package core

import (
	"fmt"
	"time"
)

// NoCompletionForecast is the sentinel for "no completion forecastable at
// the current pace", returned when the average contribution is zero.
const NoCompletionForecast = 999

// GoalMetrics are the derived pacing figures for one goal.
type GoalMetrics struct {
	// MonthsRemaining and MonthsElapsed are whole calendar-month counts,
	// never less than 1.
	MonthsRemaining int
	MonthsElapsed   int
	// AvgContribution is the actual average monthly pace since creation.
	AvgContribution Money
	RemainingAmount Money
	// RequiredContribution is the monthly pace needed to reach the target
	// by the deadline, starting today.
	RequiredContribution Money
	// EstimatedMonths is RemainingAmount at the actual pace, or
	// NoCompletionForecast when the pace is zero.
	EstimatedMonths float64
}

// MetricsResult distinguishes a healthy projection from one degraded by
// malformed goal timestamps. A degraded result is a deliberate local
// recovery, not an error: callers render it, tests can assert on it.
type MetricsResult struct {
	Metrics  GoalMetrics
	Degraded bool
	Reason   string
}

// MonthsBetween counts whole calendar months from one instant to another,
// ignoring day-of-month: a deadline on any day of a month counts that
// whole month. Negative when to precedes from.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// ComputeGoalMetrics projects a goal's pace as of now. Malformed deadline
// or creation timestamps fail soft with a degraded default record.
func ComputeGoalMetrics(g Goal, now time.Time) MetricsResult {
	deadline, err := time.Parse(DateLayout, g.Deadline)
	if err != nil {
		return degradedMetrics(g, fmt.Sprintf("unparsable deadline %q", g.Deadline))
	}
	created, err := time.Parse(TimestampLayout, g.CreatedAt)
	if err != nil {
		return degradedMetrics(g, fmt.Sprintf("unparsable creation timestamp %q", g.CreatedAt))
	}

	remaining := MonthsBetween(now, deadline)
	if remaining < 1 {
		remaining = 1
	}
	elapsed := MonthsBetween(created, now)
	if elapsed < 1 {
		elapsed = 1
	}

	avg := g.Current.Cents / int64(elapsed)
	left := g.Target.Cents - g.Current.Cents
	if left < 0 {
		left = 0
	}
	estimated := float64(NoCompletionForecast)
	if avg > 0 {
		estimated = float64(left) / float64(avg)
	}

	return MetricsResult{Metrics: GoalMetrics{
		MonthsRemaining:      remaining,
		MonthsElapsed:        elapsed,
		AvgContribution:      Money{Cents: avg},
		RemainingAmount:      Money{Cents: left},
		RequiredContribution: Money{Cents: left / int64(remaining)},
		EstimatedMonths:      estimated,
	}}
}

func degradedMetrics(g Goal, reason string) MetricsResult {
	left := g.Target.Cents - g.Current.Cents
	if left < 0 {
		left = 0
	}
	return MetricsResult{
		Metrics: GoalMetrics{
			MonthsRemaining: 1,
			MonthsElapsed:   1,
			RemainingAmount: Money{Cents: left},
			EstimatedMonths: NoCompletionForecast,
		},
		Degraded: true,
		Reason:   reason,
	}
}
