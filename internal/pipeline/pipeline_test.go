package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/walletmom/internal/model"
)

type fakeSource struct {
	profile model.UserProfile
	fixed   []model.FixedExpense
	txs     []model.Transaction
	err     error
	reads   int
}

func (f *fakeSource) Profile() (model.UserProfile, error) {
	f.reads++
	return f.profile, f.err
}

func (f *fakeSource) FixedExpenses() ([]model.FixedExpense, error) {
	return f.fixed, nil
}

func (f *fakeSource) Transactions() ([]model.Transaction, error) {
	return f.txs, nil
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func tx(at time.Time, amount int64, cat model.Category, kind model.Kind) model.Transaction {
	return model.Transaction{Timestamp: at, Description: "t", Amount: d(amount), Category: cat, Kind: kind}
}

func TestSnapshot(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	src := &fakeSource{
		profile: model.UserProfile{MonthlyIncome: d(50000), SavingsGoal: d(5000), Currency: "₹"},
		fixed: []model.FixedExpense{
			{Name: "Rent", Amount: d(15000)},
			{Name: "Internet", Amount: d(1000)},
		},
		txs: []model.Transaction{
			tx(now, 2000, model.CategoryWants, model.KindExpense),
			tx(now, 500, model.CategoryNeeds, model.KindExpense),
			tx(now, 9999, model.CategoryUnexpected, model.KindIncome),
		},
	}

	snap, err := NewAggregator(src).Snapshot()
	require.NoError(t, err)

	assert.True(t, snap.Income.Equal(d(50000)))
	assert.True(t, snap.TotalFixedExpenses.Equal(d(16000)))
	assert.True(t, snap.VariableExpenses.Equal(d(2500)), "income-kind transactions are not spend")
	assert.True(t, snap.SavingsGoal.Equal(d(5000)))
	assert.True(t, snap.FreeCashFlow.Equal(d(31500)))
}

func TestSnapshotIdempotent(t *testing.T) {
	src := &fakeSource{
		profile: model.UserProfile{MonthlyIncome: d(1000)},
		fixed:   []model.FixedExpense{{Name: "Rent", Amount: d(400)}},
	}
	agg := NewAggregator(src)

	a, err := agg.Snapshot()
	require.NoError(t, err)
	b, err := agg.Snapshot()
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, 2, src.reads, "every snapshot re-reads the source")
}

func TestSnapshotEmptyLedger(t *testing.T) {
	snap, err := NewAggregator(&fakeSource{profile: model.UserProfile{MonthlyIncome: decimal.Zero, SavingsGoal: decimal.Zero}}).Snapshot()
	require.NoError(t, err)
	assert.True(t, snap.FreeCashFlow.IsZero())
}

func TestSnapshotNegativeFreeCash(t *testing.T) {
	snap := BuildSnapshot(
		model.UserProfile{MonthlyIncome: d(30000)},
		[]model.FixedExpense{{Name: "Rent", Amount: d(40000)}},
		nil,
	)
	assert.True(t, snap.FreeCashFlow.Equal(d(-10000)))
}

func TestSnapshotPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewAggregator(&fakeSource{err: boom}).Snapshot()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRecent(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	var txs []model.Transaction
	for i := 0; i < 7; i++ {
		txs = append(txs, tx(base.AddDate(0, 0, i), int64(i+1), model.CategoryWants, model.KindExpense))
	}
	txs = append(txs, tx(base.AddDate(0, 0, 8), 100, model.CategoryWants, model.KindIncome))

	got := Recent(txs, 5)
	require.Len(t, got, 5)
	assert.True(t, got[0].Amount.Equal(d(7)), "newest expense first")
	assert.True(t, got[4].Amount.Equal(d(3)))

	assert.Nil(t, Recent(txs, 0))
}

func TestReview(t *testing.T) {
	may := time.Date(2024, 5, 15, 0, 0, 0, 0, time.Local)
	txs := []model.Transaction{
		tx(time.Date(2024, 4, 30, 23, 0, 0, 0, time.Local), 999, model.CategoryWants, model.KindExpense),
		tx(time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local), 300, model.CategoryNeeds, model.KindExpense),
		tx(time.Date(2024, 5, 20, 8, 0, 0, 0, time.Local), 1200, model.CategoryWants, model.KindExpense),
		tx(time.Date(2024, 5, 21, 8, 0, 0, 0, time.Local), 5000, model.CategoryUnexpected, model.KindIncome),
		tx(time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local), 50, model.CategoryWants, model.KindExpense),
	}

	rev := Review(txs, may)
	assert.Equal(t, 3, rev.Transactions)
	assert.True(t, rev.Spent.Equal(d(1500)))
	assert.True(t, rev.Received.Equal(d(5000)))
	assert.True(t, rev.ByCategory[model.CategoryWants].Equal(d(1200)))
	assert.True(t, rev.ByCategory[model.CategoryNeeds].Equal(d(300)))
	assert.True(t, rev.ByCategory[model.CategoryUnexpected].IsZero())
	require.NotNil(t, rev.Largest)
	assert.True(t, rev.Largest.Amount.Equal(d(1200)))

	assert.Contains(t, ReviewMessage(rev), "logged 3 transactions")
}

func TestReviewEmpty(t *testing.T) {
	rev := Review(nil, time.Now())
	assert.Equal(t, 0, rev.Transactions)
	assert.Nil(t, rev.Largest)
	assert.Equal(t, "No transaction history to review yet.", ReviewMessage(rev))
}

func TestDailySpendFillsGaps(t *testing.T) {
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	until := time.Date(2024, 5, 3, 23, 59, 0, 0, time.Local)
	txs := []model.Transaction{
		tx(time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local), 100, model.CategoryWants, model.KindExpense),
		tx(time.Date(2024, 5, 1, 18, 0, 0, 0, time.Local), 50, model.CategoryNeeds, model.KindExpense),
		tx(time.Date(2024, 5, 3, 9, 0, 0, 0, time.Local), 20, model.CategoryWants, model.KindExpense),
		tx(time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local), 700, model.CategoryWants, model.KindIncome),
	}

	days := DailySpend(txs, since, until)
	require.Len(t, days, 3)
	assert.Equal(t, 3, days[0].Date.Day(), "most recent first")
	assert.True(t, days[0].Spent.Equal(d(20)))
	assert.True(t, days[1].Spent.IsZero())
	assert.Equal(t, 2, days[2].Count)
	assert.True(t, days[2].Spent.Equal(d(150)))
}
