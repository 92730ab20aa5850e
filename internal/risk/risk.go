// Package risk classifies a prospective purchase against the discretionary balance.
package risk

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/walletmom/internal/model"
)

// Reasons attached to each status.
const (
	ReasonDanger  = "Insufficient funds. This purchase puts you in debt."
	ReasonCaution = "This uses more than 50% of your remaining monthly 'fun money'."
	ReasonSafe    = "You have enough budget for this."
)

var (
	cautionShare = decimal.RequireFromString("0.5")
	hundred      = decimal.NewFromInt(100)
)

// Input is one purchase to assess.
//
// CurrentSavings and SavingsGoal are accepted for callers that already
// have them to hand but do not influence the verdict.
type Input struct {
	DiscretionaryBalance decimal.Decimal
	CurrentSavings       decimal.Decimal
	SavingsGoal          decimal.Decimal
	ItemCost             decimal.Decimal
}

// Assess classifies in. A purchase that would leave a negative balance is
// DANGER; one costing more than half the balance is CAUTION; anything
// else is SAFE. The percentage is omitted for DANGER.
func Assess(in Input) (model.RiskAssessment, error) {
	if err := model.RequireNonNegative("item cost", in.ItemCost); err != nil {
		return model.RiskAssessment{}, err
	}

	remaining := in.DiscretionaryBalance.Sub(in.ItemCost)
	if remaining.IsNegative() {
		return model.RiskAssessment{
			Status:           model.RiskDanger,
			Reason:           ReasonDanger,
			RemainingBalance: remaining,
		}, nil
	}

	pct := costPercentage(in.ItemCost, in.DiscretionaryBalance)
	if in.ItemCost.GreaterThan(in.DiscretionaryBalance.Mul(cautionShare)) {
		return model.RiskAssessment{
			Status:           model.RiskCaution,
			Reason:           ReasonCaution,
			RemainingBalance: remaining,
			CostPercentage:   &pct,
		}, nil
	}

	return model.RiskAssessment{
		Status:           model.RiskSafe,
		Reason:           ReasonSafe,
		RemainingBalance: remaining,
		CostPercentage:   &pct,
	}, nil
}

// costPercentage is 100 × cost / balance, or 0 when the balance is zero.
// Callers reach here only with cost ≤ balance, so a zero balance means a
// zero cost.
func costPercentage(cost, balance decimal.Decimal) decimal.Decimal {
	if balance.IsZero() {
		return decimal.Zero
	}
	return cost.Mul(hundred).Div(balance)
}
