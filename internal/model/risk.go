package model

import "github.com/shopspring/decimal"

// RiskStatus classifies a prospective purchase.
type RiskStatus string

const (
	RiskSafe    RiskStatus = "SAFE"
	RiskCaution RiskStatus = "CAUTION"
	RiskDanger  RiskStatus = "DANGER"
)

// RiskAssessment is the evaluator's verdict on one prospective expense.
// CostPercentage is nil when the purchase exceeds the balance.
type RiskAssessment struct {
	Status           RiskStatus       `json:"status"`
	Reason           string           `json:"reason"`
	RemainingBalance decimal.Decimal  `json:"remaining_balance"`
	CostPercentage   *decimal.Decimal `json:"cost_percentage_of_free_cash,omitempty"`
}
