package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/walletmom/internal/model"
)

func syntheticLedger(n int) ([]model.FixedExpense, []model.Transaction) {
	fixed := []model.FixedExpense{
		{Name: "Rent", Amount: d(15000)},
		{Name: "Internet", Amount: d(999)},
		{Name: "Insurance", Amount: d(2400)},
	}
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local)
	txs := make([]model.Transaction, n)
	for i := range txs {
		kind := model.KindExpense
		if i%10 == 0 {
			kind = model.KindIncome
		}
		txs[i] = tx(base.Add(time.Duration(i)*time.Hour), int64(i%500), model.Categories[i%3], kind)
	}
	return fixed, txs
}

func BenchmarkBuildSnapshot(b *testing.B) {
	fixed, txs := syntheticLedger(10000)
	profile := model.UserProfile{MonthlyIncome: d(80000), SavingsGoal: d(10000)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildSnapshot(profile, fixed, txs)
	}
}

func BenchmarkReview(b *testing.B) {
	_, txs := syntheticLedger(10000)
	month := txs[len(txs)/2].Timestamp

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Review(txs, month)
	}
}
