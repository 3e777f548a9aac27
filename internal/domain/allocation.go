package domain

import "github.com/shopspring/decimal"

// AllocationMethod names the algorithm that produced a result
type AllocationMethod string

const (
	AllocationMethodKnapsack AllocationMethod = "knapsack"
	AllocationMethodGreedy   AllocationMethod = "greedy"
)

// AllocationLine is one asset's share of an allocation
type AllocationLine struct {
	Symbol            string
	UnitPrice         decimal.Decimal
	Quantity          int64
	TotalCost         decimal.Decimal // Quantity * UnitPrice
	ExpectedReturnPct decimal.Decimal
	TotalReturnValue  decimal.Decimal // TotalCost * ExpectedReturnPct / 100
}

// AllocationResult is the outcome of one optimisation call
// Lines are sorted by TotalReturnValue descending; values are exact and unrounded
type AllocationResult struct {
	Lines                    []AllocationLine
	TotalInvestment          decimal.Decimal
	TotalExpectedReturnValue decimal.Decimal
	RemainingBudget          decimal.Decimal
	ObjectiveValue           decimal.Decimal
	Method                   AllocationMethod
}

// EmptyAllocation returns a result that spends nothing
func EmptyAllocation(budget decimal.Decimal) *AllocationResult {
	return &AllocationResult{
		Lines:                    []AllocationLine{},
		TotalInvestment:          decimal.Zero,
		TotalExpectedReturnValue: decimal.Zero,
		RemainingBudget:          budget,
		ObjectiveValue:           decimal.Zero,
		Method:                   AllocationMethodKnapsack,
	}
}

// Quantity returns the number of shares held for symbol, 0 if absent
func (r *AllocationResult) Quantity(symbol string) int64 {
	for _, line := range r.Lines {
		if line.Symbol == symbol {
			return line.Quantity
		}
	}
	return 0
}
