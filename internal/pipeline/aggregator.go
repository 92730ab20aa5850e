// Package pipeline derives financial snapshots and reviews from ledger records.
package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/walletmom/internal/model"
)

// Source is the read side of the ledger.
type Source interface {
	Profile() (model.UserProfile, error)
	FixedExpenses() ([]model.FixedExpense, error)
	Transactions() ([]model.Transaction, error)
}

// Aggregator computes snapshots from a Source. It holds no cache; every
// call re-reads the source.
type Aggregator struct {
	src Source
}

// NewAggregator returns an Aggregator over src.
func NewAggregator(src Source) *Aggregator {
	return &Aggregator{src: src}
}

// Snapshot reads the current profile, fixed expenses and log and
// returns the derived figures.
func (a *Aggregator) Snapshot() (model.FinancialSnapshot, error) {
	profile, err := a.src.Profile()
	if err != nil {
		return model.FinancialSnapshot{}, fmt.Errorf("reading profile: %w", err)
	}
	fixed, err := a.src.FixedExpenses()
	if err != nil {
		return model.FinancialSnapshot{}, fmt.Errorf("reading fixed expenses: %w", err)
	}
	txs, err := a.src.Transactions()
	if err != nil {
		return model.FinancialSnapshot{}, fmt.Errorf("reading transactions: %w", err)
	}
	return BuildSnapshot(profile, fixed, txs), nil
}

// BuildSnapshot is the pure core of Snapshot.
func BuildSnapshot(profile model.UserProfile, fixed []model.FixedExpense, txs []model.Transaction) model.FinancialSnapshot {
	totalFixed := TotalFixed(fixed)
	variable := VariableSpend(txs)
	return model.FinancialSnapshot{
		Income:             profile.MonthlyIncome,
		TotalFixedExpenses: totalFixed,
		VariableExpenses:   variable,
		SavingsGoal:        profile.SavingsGoal,
		FreeCashFlow:       profile.MonthlyIncome.Sub(totalFixed).Sub(variable),
	}
}

// TotalFixed sums every fixed expense.
func TotalFixed(fixed []model.FixedExpense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range fixed {
		total = total.Add(e.Amount)
	}
	return total
}

// VariableSpend sums expense-kind transactions. Income-kind entries are
// recorded in the log but never reduce free cash.
func VariableSpend(txs []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.IsExpense() {
			total = total.Add(tx.Amount)
		}
	}
	return total
}
