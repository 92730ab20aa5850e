package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Decision is one "can I buy this?" evaluation as recorded in the
// decision journal. It is an audit trail and never feeds back into
// later assessments.
type Decision struct {
	ID               string
	At               time.Time
	Item             string
	Cost             decimal.Decimal
	Category         Category
	Status           RiskStatus
	Reason           string
	RemainingBalance decimal.Decimal
	CostPercentage   *decimal.Decimal
	Provider         string
	FellBack         bool
	Confirmed        bool
}
