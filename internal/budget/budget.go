// Package budget turns income and fixed costs into a recommended split.
package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/walletmom/internal/model"
)

// Strategy selects an allocation rule.
type Strategy string

const (
	StrategyNeedsFirst        Strategy = "needs-first"
	StrategyFiftyThirtyTwenty Strategy = "50-30-20"
)

// Plan names stored alongside a saved plan.
const (
	NeedsFirstName        = "Needs-First Allocation"
	FiftyThirtyTwentyName = "50/30/20 Rule"
)

var (
	savingsShare = decimal.RequireFromString("0.40")

	fiftyNeeds   = decimal.RequireFromString("0.50")
	thirtyWants  = decimal.RequireFromString("0.30")
	twentySaving = decimal.RequireFromString("0.20")
)

// ParseStrategy accepts a strategy flag value.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyNeedsFirst:
		return StrategyNeedsFirst, nil
	case StrategyFiftyThirtyTwenty, "50/30/20":
		return StrategyFiftyThirtyTwenty, nil
	}
	return "", &model.ValidationError{Field: "strategy", Reason: fmt.Sprintf("%q is not one of needs-first, 50-30-20", s)}
}

// Allocate covers fixed costs first, then splits what is left 40% to
// savings and 60% to wants. When fixed costs exceed income the plan is a
// deficit carrying the shortfall.
func Allocate(income, fixedTotal decimal.Decimal) (model.BudgetPlan, error) {
	if err := model.RequireNonNegative("income", income); err != nil {
		return model.BudgetPlan{}, err
	}
	if err := model.RequireNonNegative("fixed expenses", fixedTotal); err != nil {
		return model.BudgetPlan{}, err
	}

	discretionary := income.Sub(fixedTotal)
	if discretionary.IsNegative() {
		return model.BudgetPlan{
			Status:   model.PlanDeficit,
			Strategy: NeedsFirstName,
			NeedsGap: discretionary.Neg(),
		}, nil
	}

	savings := discretionary.Mul(savingsShare)
	return model.BudgetPlan{
		Status:             model.PlanSurplus,
		Strategy:           NeedsFirstName,
		NeedsTotal:         fixedTotal,
		DiscretionaryTotal: discretionary,
		RecommendedSavings: savings,
		// Taking the remainder keeps savings + wants exactly equal to
		// discretionary.
		RecommendedWants: discretionary.Sub(savings),
	}, nil
}

// FiftyThirtyTwenty splits gross income 50% needs, 30% wants, 20% savings.
func FiftyThirtyTwenty(income decimal.Decimal) (model.Split, error) {
	if err := model.RequireNonNegative("income", income); err != nil {
		return model.Split{}, err
	}
	return model.Split{
		Needs:   income.Mul(fiftyNeeds),
		Wants:   income.Mul(thirtyWants),
		Savings: income.Mul(twentySaving),
	}, nil
}

// Plan produces a BudgetPlan for either strategy. A 50/30/20 plan is a
// deficit when its needs share cannot cover fixed costs.
func Plan(strategy Strategy, income, fixedTotal decimal.Decimal) (model.BudgetPlan, error) {
	if strategy != StrategyFiftyThirtyTwenty {
		return Allocate(income, fixedTotal)
	}
	if err := model.RequireNonNegative("fixed expenses", fixedTotal); err != nil {
		return model.BudgetPlan{}, err
	}
	split, err := FiftyThirtyTwenty(income)
	if err != nil {
		return model.BudgetPlan{}, err
	}
	if fixedTotal.GreaterThan(split.Needs) {
		return model.BudgetPlan{
			Status:   model.PlanDeficit,
			Strategy: FiftyThirtyTwentyName,
			NeedsGap: fixedTotal.Sub(split.Needs),
		}, nil
	}
	return model.BudgetPlan{
		Status:             model.PlanSurplus,
		Strategy:           FiftyThirtyTwentyName,
		NeedsTotal:         split.Needs,
		DiscretionaryTotal: split.Wants.Add(split.Savings),
		RecommendedSavings: split.Savings,
		RecommendedWants:   split.Wants,
	}, nil
}
