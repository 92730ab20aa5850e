package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/walletmom/internal/model"
)

// MonthStart truncates t to the first instant of its local calendar month.
func MonthStart(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
}

// FilterByTime returns transactions whose timestamp falls within [since, until).
// Zero bounds are open.
func FilterByTime(txs []model.Transaction, since, until time.Time) []model.Transaction {
	if since.IsZero() && until.IsZero() {
		return txs
	}

	var result []model.Transaction
	for _, tx := range txs {
		if !since.IsZero() && tx.Timestamp.Before(since) {
			continue
		}
		if !until.IsZero() && !tx.Timestamp.Before(until) {
			continue
		}
		result = append(result, tx)
	}
	return result
}

// FilterByMonth returns the transactions in the calendar month containing month.
func FilterByMonth(txs []model.Transaction, month time.Time) []model.Transaction {
	start := MonthStart(month)
	return FilterByTime(txs, start, start.AddDate(0, 1, 0))
}

// Recent returns up to n expense transactions, newest first.
func Recent(txs []model.Transaction, n int) []model.Transaction {
	if n <= 0 {
		return nil
	}
	out := make([]model.Transaction, 0, n)
	for i := len(txs) - 1; i >= 0 && len(out) < n; i-- {
		if txs[i].IsExpense() {
			out = append(out, txs[i])
		}
	}
	return out
}

// Review summarises the month containing month.
func Review(txs []model.Transaction, month time.Time) model.MonthlyReview {
	rev := model.MonthlyReview{
		Month:      MonthStart(month),
		Spent:      decimal.Zero,
		Received:   decimal.Zero,
		ByCategory: make(map[model.Category]decimal.Decimal, len(model.Categories)),
	}
	for _, c := range model.Categories {
		rev.ByCategory[c] = decimal.Zero
	}

	for _, tx := range FilterByMonth(txs, month) {
		rev.Transactions++
		if !tx.IsExpense() {
			rev.Received = rev.Received.Add(tx.Amount)
			continue
		}
		rev.Spent = rev.Spent.Add(tx.Amount)
		rev.ByCategory[tx.Category] = rev.ByCategory[tx.Category].Add(tx.Amount)
		if rev.Largest == nil || tx.Amount.GreaterThan(rev.Largest.Amount) {
			largest := tx
			rev.Largest = &largest
		}
	}
	return rev
}

// ReviewMessage is the one-line reflection shown above a review.
func ReviewMessage(rev model.MonthlyReview) string {
	if rev.Transactions == 0 {
		return "No transaction history to review yet."
	}
	return fmt.Sprintf("I notice you have logged %d transactions this month. Keep tracking to see spending patterns!", rev.Transactions)
}

// DailySpend computes per-day expense totals in [since, until], most
// recent first. Days without spending are filled with zeros.
func DailySpend(txs []model.Transaction, since, until time.Time) []model.DailySpend {
	dayMap := make(map[string]*model.DailySpend)

	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		local := tx.Timestamp.Local()
		if local.Before(since) || local.After(until) {
			continue
		}
		dayKey := local.Format("2006-01-02")
		ds, ok := dayMap[dayKey]
		if !ok {
			t, _ := time.ParseInLocation("2006-01-02", dayKey, time.Local)
			ds = &model.DailySpend{Date: t, Spent: decimal.Zero}
			dayMap[dayKey] = ds
		}
		ds.Count++
		ds.Spent = ds.Spent.Add(tx.Amount)
	}

	day := dayFloor(since)
	end := dayFloor(until)
	for !day.After(end) {
		dayKey := day.Format("2006-01-02")
		if _, ok := dayMap[dayKey]; !ok {
			dayMap[dayKey] = &model.DailySpend{Date: day, Spent: decimal.Zero}
		}
		day = day.AddDate(0, 0, 1)
	}

	days := make([]model.DailySpend, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

func dayFloor(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
