package core

// FinancialSummary is the current financial position derived from the full
// transaction history and goal set.
type FinancialSummary struct {
	TotalIncome    Money
	TotalExpense   Money
	NetPosition    Money
	TotalAllocated Money
	// FreeBalance may be negative: the engine does not clamp, a negative
	// value is a meaningful over-commitment signal. Display layers clamp.
	FreeBalance Money
	MonthlyCost Money
}

// HistoricalAverages are per-month pacing figures over the whole ledger.
type HistoricalAverages struct {
	AvgMonthlyIncome Money
	// AvgMonthlyAllocated divides the point-in-time allocated total by the
	// number of distinct months with any transaction activity (floored to
	// 1). It approximates the average allocation pace since the first
	// recorded transaction, not a true monthly average of allocation
	// events.
	AvgMonthlyAllocated Money
}

// BuildSummary derives the summary identities from the raw aggregates.
func BuildSummary(income, expense, allocated, monthlyCost Money) FinancialSummary {
	net := income.Cents - expense.Cents
	return FinancialSummary{
		TotalIncome:    income,
		TotalExpense:   expense,
		NetPosition:    Money{Cents: net},
		TotalAllocated: allocated,
		FreeBalance:    Money{Cents: net - allocated.Cents},
		MonthlyCost:    monthlyCost,
	}
}

// AverageAllocated computes the allocation pace for HistoricalAverages.
// activityMonths below 1 is floored to 1 so an empty ledger yields zero
// instead of a division error.
func AverageAllocated(allocated Money, activityMonths int) Money {
	if activityMonths < 1 {
		activityMonths = 1
	}
	return Money{Cents: allocated.Cents / int64(activityMonths)}
}
