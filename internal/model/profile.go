package model

import "github.com/shopspring/decimal"

// DefaultCurrency is used when neither the ledger nor the config names one.
const DefaultCurrency = "₹"

// UserProfile is the singleton owner profile of a ledger.
type UserProfile struct {
	MonthlyIncome decimal.Decimal `json:"monthly_income" yaml:"monthly_income"`
	SavingsGoal   decimal.Decimal `json:"savings_goal" yaml:"savings_goal"`
	Currency      string          `json:"currency" yaml:"currency"`
}

// FixedExpense is a named recurring cost tracked as a single current amount.
// Names are unique within a ledger.
type FixedExpense struct {
	Name   string          `json:"name" yaml:"name"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// Validate checks the expense name and amount.
func (e FixedExpense) Validate() error {
	if err := RequireName("expense name", e.Name); err != nil {
		return err
	}
	return RequireNonNegative("expense amount", e.Amount)
}
