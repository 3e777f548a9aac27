package allocator

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockpicker-backend/internal/domain"
)

// Repetition controls how many shares of one asset may be bought
type Repetition string

const (
	RepetitionUnbounded   Repetition = "unbounded"    // any non-negative integer quantity
	RepetitionSingleShare Repetition = "single_share" // at most one share per asset (0/1 knapsack)
)

// Objective controls what the allocator maximises
type Objective string

const (
	ObjectiveMonetaryReturn Objective = "monetary_return" // sum of price * expectedReturn / 100 per share
	ObjectiveReturnRate     Objective = "return_rate"     // sum of expectedReturn percentages per share
)

const (
	DefaultUnitScale     int32 = 2
	DefaultReturnScale   int32 = 4
	DefaultMaxTableUnits int64 = 10_000_000
)

// Config tunes the discretisation and safety limits of the allocator
type Config struct {
	UnitScale     int32           // Minimum currency digits kept when discretising (2 = cents, 0 = whole units)
	ReturnScale   int32           // Minimum percentage digits kept in the table objective
	MaxTableUnits int64           // Table cells above which the greedy fallback is used
	MaxBudget     decimal.Decimal // Budgets above this are rejected; zero disables the ceiling
	Repetition    Repetition
	Objective     Objective
}

// DefaultConfig returns the canonical policy: unbounded quantities, monetary objective, cent precision
func DefaultConfig() Config {
	return Config{
		UnitScale:     DefaultUnitScale,
		ReturnScale:   DefaultReturnScale,
		MaxTableUnits: DefaultMaxTableUnits,
		Repetition:    RepetitionUnbounded,
		Objective:     ObjectiveMonetaryReturn,
	}
}

// Allocator selects share quantities that maximise expected return within a budget
// It keeps no state between calls and is safe for concurrent use
type Allocator struct {
	cfg Config
}

// New creates an Allocator; empty Repetition/Objective and a non-positive MaxTableUnits fall back to defaults
func New(cfg Config) *Allocator {
	if cfg.Repetition == "" {
		cfg.Repetition = RepetitionUnbounded
	}
	if cfg.Objective == "" {
		cfg.Objective = ObjectiveMonetaryReturn
	}
	if cfg.MaxTableUnits <= 0 {
		cfg.MaxTableUnits = DefaultMaxTableUnits
	}
	if cfg.UnitScale < 0 {
		cfg.UnitScale = 0
	}
	if cfg.ReturnScale < 0 {
		cfg.ReturnScale = 0
	}
	return &Allocator{cfg: cfg}
}

// Config returns the effective configuration
func (a *Allocator) Config() Config {
	return a.cfg
}

// Optimize allocates budget across assets with the default policy
func Optimize(budget decimal.Decimal, assets []domain.Asset) (*domain.AllocationResult, error) {
	return New(DefaultConfig()).Optimize(context.Background(), budget, assets)
}

// candidate is an asset prepared for the table: price and objective value as integers
type candidate struct {
	asset domain.Asset
	units int64           // price in discretisation units, rounded up
	value decimal.Decimal // objective value of one share, scaled and rounded
}

// Optimize allocates budget across assets
// Logic:
//  1. Reject a negative (or over-ceiling) budget and any asset with price <= 0 or return < 0
//  2. Drop later assets that repeat an earlier symbol
//  3. Floor the budget and ceil every price to the finest unit the prices need, or to UnitScale
//     when that table would be too large
//  4. Fill the knapsack table, or run the greedy pass when the table would be too large
//  5. Aggregate quantities into lines sorted by total return value, descending
//
// No partial result is returned alongside an error.
func (a *Allocator) Optimize(ctx context.Context, budget decimal.Decimal, assets []domain.Asset) (*domain.AllocationResult, error) {
	if err := a.validateBudget(budget); err != nil {
		return nil, err
	}

	for i, asset := range assets {
		if err := domain.ValidateAssetValues(i, asset); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unique := uniqueBySymbol(assets)

	exact := a.exactScales(unique)
	budgetUnits, candidates := a.prepare(budget, unique, exact)
	if len(candidates) == 0 {
		return domain.EmptyAllocation(budget), nil
	}

	fits := a.fitsTable(budgetUnits, candidates)
	if configured := a.configuredScales(); !fits && exact != configured {
		// Coarser units round prices up but may bring the table back under MaxTableUnits
		if units, coarse := a.prepare(budget, unique, configured); len(coarse) > 0 && a.fitsTable(units, coarse) {
			budgetUnits, candidates, fits = units, coarse, true
		}
	}

	var (
		quantities []int64
		method     domain.AllocationMethod
		err        error
	)
	if fits {
		method = domain.AllocationMethodKnapsack
		w := budgetUnits.IntPart()
		if a.cfg.Repetition == RepetitionSingleShare {
			quantities, err = fillSingleShare(ctx, w, candidates)
		} else {
			quantities, err = fillUnbounded(ctx, w, candidates)
		}
		if err != nil {
			return nil, err
		}
	} else {
		method = domain.AllocationMethodGreedy
		quantities = a.greedy(budget, candidates)
	}

	return a.buildResult(budget, candidates, quantities, method), nil
}

func (a *Allocator) validateBudget(budget decimal.Decimal) error {
	if err := domain.ValidateBudget(budget); err != nil {
		return err
	}
	if a.cfg.MaxBudget.IsPositive() && budget.GreaterThan(a.cfg.MaxBudget) {
		return &domain.InvalidBudgetError{Value: budget.String(), Reason: "exceeds ceiling " + a.cfg.MaxBudget.String()}
	}
	return nil
}

// scales are the powers of ten that turn prices and per-share objective values into table integers
type scales struct {
	unit int32
	ret  int32
}

func (a *Allocator) configuredScales() scales {
	return scales{unit: a.cfg.UnitScale, ret: a.cfg.ReturnScale}
}

// exactScales raises the configured scales until every price and objective value is an integer.
// Budgets need no digits of their own: every cost is a multiple of the price unit, so flooring the
// budget to it never excludes an affordable combination.
func (a *Allocator) exactScales(assets []domain.Asset) scales {
	s := a.configuredScales()
	for _, asset := range assets {
		if p := domain.DecimalPlaces(asset.Price); p > s.unit {
			s.unit = p
		}
		r := domain.DecimalPlaces(asset.ExpectedReturn)
		if a.cfg.Objective != ObjectiveReturnRate {
			// monetary value divides the percentage by 100
			r += 2
		}
		if r > s.ret {
			s.ret = r
		}
	}
	return s
}

// prepare discretises the budget and keeps the assets affordable at least once
func (a *Allocator) prepare(budget decimal.Decimal, assets []domain.Asset, s scales) (decimal.Decimal, []candidate) {
	budgetUnits := budget.Shift(s.unit).Floor()

	candidates := make([]candidate, 0, len(assets))
	for _, asset := range assets {
		units := asset.Price.Shift(s.unit).Ceil()
		if units.GreaterThan(budgetUnits) {
			continue
		}
		candidates = append(candidates, candidate{
			asset: asset,
			units: units.IntPart(),
			value: a.scaledValue(asset, s),
		})
	}
	return budgetUnits, candidates
}

// scaledValue is the objective value of one share in table units
func (a *Allocator) scaledValue(asset domain.Asset, s scales) decimal.Decimal {
	if a.cfg.Objective == ObjectiveReturnRate {
		return asset.ExpectedReturn.Shift(s.ret).Round(0)
	}
	return asset.Price.Mul(asset.ExpectedReturn).Shift(s.unit + s.ret - 2).Round(0)
}

// fitsTable reports whether the table stays within MaxTableUnits cells and its values fit in int64
func (a *Allocator) fitsTable(budgetUnits decimal.Decimal, candidates []candidate) bool {
	cells := budgetUnits.Add(decimal.NewFromInt(1))
	if a.cfg.Repetition == RepetitionSingleShare {
		cells = cells.Mul(decimal.NewFromInt(int64(len(candidates))))
	}
	if cells.GreaterThan(decimal.NewFromInt(a.cfg.MaxTableUnits)) {
		return false
	}

	// Upper bound of any table entry
	bound := decimal.Zero
	if a.cfg.Repetition == RepetitionSingleShare {
		for _, c := range candidates {
			bound = bound.Add(c.value)
		}
	} else {
		minUnits, maxValue := candidates[0].units, decimal.Zero
		for _, c := range candidates {
			if c.units < minUnits {
				minUnits = c.units
			}
			if c.value.GreaterThan(maxValue) {
				maxValue = c.value
			}
		}
		shares := budgetUnits.Div(decimal.NewFromInt(minUnits)).Floor()
		bound = shares.Mul(maxValue)
	}

	return bound.LessThanOrEqual(decimal.NewFromInt(math.MaxInt64 / 2))
}

func (a *Allocator) buildResult(budget decimal.Decimal, candidates []candidate, quantities []int64, method domain.AllocationMethod) *domain.AllocationResult {
	result := domain.EmptyAllocation(budget)
	result.Method = method

	objective := decimal.Zero
	for i, qty := range quantities {
		if qty <= 0 {
			continue
		}
		asset := candidates[i].asset
		q := decimal.NewFromInt(qty)
		cost := asset.Price.Mul(q)
		line := domain.AllocationLine{
			Symbol:            asset.Symbol,
			UnitPrice:         asset.Price,
			Quantity:          qty,
			TotalCost:         cost,
			ExpectedReturnPct: asset.ExpectedReturn,
			TotalReturnValue:  cost.Mul(asset.ExpectedReturn).Div(decimal.NewFromInt(100)),
		}
		result.Lines = append(result.Lines, line)
		result.TotalInvestment = result.TotalInvestment.Add(line.TotalCost)
		result.TotalExpectedReturnValue = result.TotalExpectedReturnValue.Add(line.TotalReturnValue)

		if a.cfg.Objective == ObjectiveReturnRate {
			objective = objective.Add(asset.ExpectedReturn.Mul(q))
		} else {
			objective = objective.Add(line.TotalReturnValue)
		}
	}

	// Candidates are in input order, so the stable sort breaks ties by input position
	sort.SliceStable(result.Lines, func(i, j int) bool {
		return result.Lines[i].TotalReturnValue.GreaterThan(result.Lines[j].TotalReturnValue)
	})

	result.RemainingBudget = budget.Sub(result.TotalInvestment)
	result.ObjectiveValue = objective
	return result
}

// uniqueBySymbol keeps the first asset of every symbol, preserving order
func uniqueBySymbol(assets []domain.Asset) []domain.Asset {
	seen := make(map[string]struct{}, len(assets))
	unique := make([]domain.Asset, 0, len(assets))
	for _, asset := range assets {
		if _, ok := seen[asset.Symbol]; ok {
			continue
		}
		seen[asset.Symbol] = struct{}{}
		unique = append(unique, asset)
	}
	return unique
}
