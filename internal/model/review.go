package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyReview summarises one calendar month of the transaction log.
type MonthlyReview struct {
	Month        time.Time                    `json:"month"`
	Transactions int                          `json:"transactions"`
	Spent        decimal.Decimal              `json:"spent"`
	Received     decimal.Decimal              `json:"received"`
	ByCategory   map[Category]decimal.Decimal `json:"by_category"`
	Largest      *Transaction                 `json:"largest,omitempty"`
}

// DailySpend is the expense total for one calendar day.
type DailySpend struct {
	Date  time.Time       `json:"date"`
	Count int             `json:"count"`
	Spent decimal.Decimal `json:"spent"`
}
