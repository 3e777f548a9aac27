package allocator

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

// greedy buys the best return-per-currency asset first, as many shares as the remaining budget allows,
// then moves to the next one. Exact decimals are used so the budget bound holds without a table.
func (a *Allocator) greedy(budget decimal.Decimal, candidates []candidate) []int64 {
	order := make([]int, 0, len(candidates))
	density := make([]decimal.Decimal, len(candidates))
	for i, c := range candidates {
		if a.cfg.Objective == ObjectiveReturnRate {
			density[i] = c.asset.ExpectedReturn.Div(c.asset.Price)
		} else {
			density[i] = c.asset.ExpectedReturn
		}
		// Zero-return assets add nothing to the objective
		if density[i].IsPositive() {
			order = append(order, i)
		}
	}

	sort.SliceStable(order, func(x, y int) bool {
		return density[order[x]].GreaterThan(density[order[y]])
	})

	quantities := make([]int64, len(candidates))
	remaining := budget
	for _, i := range order {
		price := candidates[i].asset.Price
		qty := remaining.Div(price).Floor()
		// Div rounds to DivisionPrecision; never let rounding buy one share too many
		if price.Mul(qty).GreaterThan(remaining) {
			qty = qty.Sub(decimal.NewFromInt(1))
		}
		if a.cfg.Repetition == RepetitionSingleShare && qty.GreaterThan(decimal.NewFromInt(1)) {
			qty = decimal.NewFromInt(1)
		}
		if !qty.IsPositive() {
			continue
		}
		if qty.GreaterThan(maxQuantity) {
			qty = maxQuantity
		}
		quantities[i] = qty.IntPart()
		remaining = remaining.Sub(price.Mul(qty))
	}
	return quantities
}
