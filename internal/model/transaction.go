package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category buckets a transaction for budgeting.
type Category string

const (
	CategoryNeeds      Category = "Needs"
	CategoryWants      Category = "Wants"
	CategoryUnexpected Category = "Unexpected"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryWants, CategoryNeeds, CategoryUnexpected}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not one of Needs, Wants, Unexpected", s)}
}

// Kind says whether a transaction moved money out or in.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// ParseKind matches s against the known kinds, ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindExpense):
		return KindExpense, nil
	case string(KindIncome):
		return KindIncome, nil
	}
	return "", &ValidationError{Field: "kind", Reason: fmt.Sprintf("%q is not one of expense, income", s)}
}

// Transaction is a single logged monetary event. Transactions are
// append-only: never edited or removed once logged.
type Transaction struct {
	Timestamp   time.Time       `json:"timestamp" yaml:"timestamp"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Category    Category        `json:"category" yaml:"category"`
	Kind        Kind            `json:"kind" yaml:"kind"`
}

// Validate checks amount, category and kind.
func (t Transaction) Validate() error {
	if err := RequireNonNegative("transaction amount", t.Amount); err != nil {
		return err
	}
	if _, err := ParseCategory(string(t.Category)); err != nil {
		return err
	}
	if _, err := ParseKind(string(t.Kind)); err != nil {
		return err
	}
	if t.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Reason: "must be set"}
	}
	return nil
}

// IsExpense reports whether the transaction counts toward variable spend.
func (t Transaction) IsExpense() bool {
	return t.Kind == KindExpense
}
