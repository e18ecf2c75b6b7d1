package core

import (
	"testing"
	"time"
)

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		from, to string
		want     int
	}{
		{"2025-01-15", "2025-01-31", 0}, // day-of-month ignored
		{"2025-01-31", "2025-02-01", 1},
		{"2025-03-01", "2026-03-01", 12},
		{"2025-06-01", "2025-03-01", -3},
	}
	for i, tc := range cases {
		from, _ := time.Parse(DateLayout, tc.from)
		to, _ := time.Parse(DateLayout, tc.to)
		if got := MonthsBetween(from, to); got != tc.want {
			t.Fatalf("case %d: MonthsBetween(%s, %s) = %d, want %d", i, tc.from, tc.to, got, tc.want)
		}
	}
}

// Goal created 3 months ago with 300 saved toward a 1200 target due in 9
// months: actual pace 100/month, required pace 100/month, 9 months to go
// at the current pace.
func TestComputeGoalMetricsPacing(t *testing.T) {
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)
	g := Goal{
		Name:      "trip",
		Current:   Money{Cents: 30000},
		Target:    Money{Cents: 120000},
		Deadline:  "2027-01-10",
		CreatedAt: "2026-01-15 09:30:00",
	}

	res := ComputeGoalMetrics(g, now)
	if res.Degraded {
		t.Fatalf("unexpected degraded result: %s", res.Reason)
	}
	m := res.Metrics
	if m.MonthsElapsed != 3 {
		t.Fatalf("months elapsed = %d, want 3", m.MonthsElapsed)
	}
	if m.MonthsRemaining != 9 {
		t.Fatalf("months remaining = %d, want 9", m.MonthsRemaining)
	}
	if m.AvgContribution.Cents != 10000 {
		t.Fatalf("avg contribution = %d, want 10000", m.AvgContribution.Cents)
	}
	if m.RemainingAmount.Cents != 90000 {
		t.Fatalf("remaining = %d, want 90000", m.RemainingAmount.Cents)
	}
	if m.RequiredContribution.Cents != 10000 {
		t.Fatalf("required contribution = %d, want 10000", m.RequiredContribution.Cents)
	}
	if m.EstimatedMonths != 9 {
		t.Fatalf("estimated months = %v, want 9", m.EstimatedMonths)
	}
}

func TestComputeGoalMetricsZeroPaceSentinel(t *testing.T) {
	now := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	g := Goal{
		Current:   Money{},
		Target:    Money{Cents: 50000},
		Deadline:  "2026-10-01",
		CreatedAt: "2026-01-01 00:00:00",
	}

	res := ComputeGoalMetrics(g, now)
	if res.Degraded {
		t.Fatalf("unexpected degraded result: %s", res.Reason)
	}
	if res.Metrics.EstimatedMonths != NoCompletionForecast {
		t.Fatalf("estimated months = %v, want sentinel %d", res.Metrics.EstimatedMonths, NoCompletionForecast)
	}
	if res.Metrics.AvgContribution.Cents != 0 {
		t.Fatalf("avg contribution = %d, want 0", res.Metrics.AvgContribution.Cents)
	}
}

func TestComputeGoalMetricsMonthFloors(t *testing.T) {
	now := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	// Past-due deadline and same-month creation both floor to 1.
	g := Goal{
		Current:   Money{Cents: 100},
		Target:    Money{Cents: 1000},
		Deadline:  "2025-01-01",
		CreatedAt: "2026-04-02 00:00:00",
	}
	res := ComputeGoalMetrics(g, now)
	if res.Degraded {
		t.Fatalf("unexpected degraded result: %s", res.Reason)
	}
	if res.Metrics.MonthsRemaining != 1 {
		t.Fatalf("past-due months remaining = %d, want 1", res.Metrics.MonthsRemaining)
	}
	if res.Metrics.MonthsElapsed != 1 {
		t.Fatalf("fresh goal months elapsed = %d, want 1", res.Metrics.MonthsElapsed)
	}
}

func TestComputeGoalMetricsOverTarget(t *testing.T) {
	now := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	g := Goal{
		Current:   Money{Cents: 2000},
		Target:    Money{Cents: 1000},
		Deadline:  "2026-12-01",
		CreatedAt: "2026-01-01 00:00:00",
	}
	res := ComputeGoalMetrics(g, now)
	if res.Metrics.RemainingAmount.Cents != 0 {
		t.Fatalf("remaining should clamp at 0, got %d", res.Metrics.RemainingAmount.Cents)
	}
	if res.Metrics.RequiredContribution.Cents != 0 {
		t.Fatalf("required contribution should be 0, got %d", res.Metrics.RequiredContribution.Cents)
	}
}

func TestComputeGoalMetricsDegraded(t *testing.T) {
	now := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	cases := []Goal{
		{Current: Money{Cents: 500}, Target: Money{Cents: 1000}, Deadline: "not-a-date", CreatedAt: "2026-01-01 00:00:00"},
		{Current: Money{Cents: 500}, Target: Money{Cents: 1000}, Deadline: "2026-12-01", CreatedAt: "garbage"},
	}
	for i, g := range cases {
		res := ComputeGoalMetrics(g, now)
		if !res.Degraded {
			t.Fatalf("case %d expected degraded result", i)
		}
		if res.Reason == "" {
			t.Fatalf("case %d degraded result missing reason", i)
		}
		m := res.Metrics
		if m.MonthsRemaining != 1 || m.AvgContribution.Cents != 0 ||
			m.RequiredContribution.Cents != 0 || m.EstimatedMonths != NoCompletionForecast {
			t.Fatalf("case %d degraded defaults wrong: %+v", i, m)
		}
	}
}
