package allocator

import (
	"context"
)

// cancelCheckMask sets how often the fill loops poll the context (every 4096 budget units)
const cancelCheckMask = 1<<12 - 1

func tableValues(candidates []candidate) ([]int64, []int64) {
	units := make([]int64, len(candidates))
	values := make([]int64, len(candidates))
	for i, c := range candidates {
		units[i] = c.units
		values[i] = c.value.IntPart()
	}
	return units, values
}

// fillUnbounded solves the unbounded knapsack over budget units [0, w]
// dp[x] is the best objective reachable with cost <= x; choice[x] is the asset that achieved it.
// An asset replaces the current best only when strictly better, so lower indexes win ties.
func fillUnbounded(ctx context.Context, w int64, candidates []candidate) ([]int64, error) {
	units, values := tableValues(candidates)

	dp := make([]int64, w+1)
	choice := make([]int32, w+1)
	for x := range choice {
		choice[x] = -1
	}

	for x := int64(1); x <= w; x++ {
		if x&cancelCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for i := range candidates {
			if units[i] > x {
				continue
			}
			if v := dp[x-units[i]] + values[i]; v > dp[x] {
				dp[x] = v
				choice[x] = int32(i)
			}
		}
	}

	quantities := make([]int64, len(candidates))
	for x := w; x > 0 && choice[x] >= 0; {
		i := choice[x]
		quantities[i]++
		x -= units[i]
	}
	return quantities, nil
}

// fillSingleShare solves the 0/1 knapsack over budget units [0, w]
// take[i][x] records that asset i improved dp[x] when it was considered.
func fillSingleShare(ctx context.Context, w int64, candidates []candidate) ([]int64, error) {
	units, values := tableValues(candidates)

	dp := make([]int64, w+1)
	take := make([][]bool, len(candidates))

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		take[i] = make([]bool, w+1)
		for x := w; x >= units[i]; x-- {
			if x&cancelCheckMask == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			if v := dp[x-units[i]] + values[i]; v > dp[x] {
				dp[x] = v
				take[i][x] = true
			}
		}
	}

	quantities := make([]int64, len(candidates))
	x := w
	for i := len(candidates) - 1; i >= 0 && x > 0; i-- {
		if take[i][x] {
			quantities[i] = 1
			x -= units[i]
		}
	}
	return quantities, nil
}
