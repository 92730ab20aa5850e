package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PlanStatus says whether fixed costs fit inside income.
type PlanStatus string

const (
	PlanSurplus PlanStatus = "surplus"
	PlanDeficit PlanStatus = "deficit"
)

// BudgetPlan is the recommended split of income after fixed costs.
// Deficit plans only carry NeedsGap; surplus plans carry the rest.
type BudgetPlan struct {
	Status             PlanStatus
	Strategy           string
	NeedsGap           decimal.Decimal
	NeedsTotal         decimal.Decimal
	DiscretionaryTotal decimal.Decimal
	RecommendedSavings decimal.Decimal
	RecommendedWants   decimal.Decimal
}

// IsDeficit reports whether fixed costs exceed income.
func (p BudgetPlan) IsDeficit() bool {
	return p.Status == PlanDeficit
}

// MarshalJSON emits the deficit or surplus record shape.
func (p BudgetPlan) MarshalJSON() ([]byte, error) {
	if p.IsDeficit() {
		return json.Marshal(struct {
			Status        PlanStatus      `json:"status"`
			Strategy      string          `json:"strategy,omitempty"`
			Discretionary decimal.Decimal `json:"discretionary"`
			NeedsGap      decimal.Decimal `json:"needs_gap"`
		}{p.Status, p.Strategy, decimal.Zero, p.NeedsGap})
	}
	return json.Marshal(struct {
		Status             PlanStatus      `json:"status"`
		Strategy           string          `json:"strategy,omitempty"`
		NeedsTotal         decimal.Decimal `json:"needs_total"`
		DiscretionaryTotal decimal.Decimal `json:"discretionary_total"`
		RecommendedSavings decimal.Decimal `json:"recommended_savings"`
		RecommendedWants   decimal.Decimal `json:"recommended_wants"`
	}{p.Status, p.Strategy, p.NeedsTotal, p.DiscretionaryTotal, p.RecommendedSavings, p.RecommendedWants})
}

// Split is a flat percentage-of-gross allocation (the 50/30/20 rule).
type Split struct {
	Needs   decimal.Decimal `json:"needs"`
	Wants   decimal.Decimal `json:"wants"`
	Savings decimal.Decimal `json:"savings"`
}
