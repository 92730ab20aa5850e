package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError reports input that was rejected before reaching storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RequireNonNegative rejects amounts below zero.
func RequireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must not be negative (got %s)", v.String())}
	}
	return nil
}

// RequireName rejects empty or whitespace-only names.
func RequireName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// ParseAmount parses a user-entered money amount such as "1,250.50".
// Negative values are rejected.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	if err := RequireNonNegative(field, d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
