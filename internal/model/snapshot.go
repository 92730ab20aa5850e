package model

import "github.com/shopspring/decimal"

// FinancialSnapshot is the point-in-time state derived from a ledger.
// It is recomputed on every request and never persisted.
type FinancialSnapshot struct {
	Income             decimal.Decimal `json:"income"`
	TotalFixedExpenses decimal.Decimal `json:"total_fixed_expenses"`
	VariableExpenses   decimal.Decimal `json:"variable_expenses"`
	SavingsGoal        decimal.Decimal `json:"savings_goal"`
	FreeCashFlow       decimal.Decimal `json:"free_cash_flow"`
}

// Equal reports whether two snapshots hold the same figures.
func (s FinancialSnapshot) Equal(o FinancialSnapshot) bool {
	return s.Income.Equal(o.Income) &&
		s.TotalFixedExpenses.Equal(o.TotalFixedExpenses) &&
		s.VariableExpenses.Equal(o.VariableExpenses) &&
		s.SavingsGoal.Equal(o.SavingsGoal) &&
		s.FreeCashFlow.Equal(o.FreeCashFlow)
}
