package purchase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theirongolddev/walletmom/internal/advisor"
	"github.com/theirongolddev/walletmom/internal/ledger"
	"github.com/theirongolddev/walletmom/internal/model"
)

type fakeJournal struct {
	recorded  []model.Decision
	confirmed []string
	err       error
}

func (f *fakeJournal) Record(d model.Decision) error {
	f.recorded = append(f.recorded, d)
	return f.err
}

func (f *fakeJournal) MarkConfirmed(id string, _ time.Time) error {
	f.confirmed = append(f.confirmed, id)
	return f.err
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// setup builds a ledger with 30000 of free cash flow.
func setup(t *testing.T) (*ledger.Ledger, *fakeJournal, *Service) {
	t.Helper()
	l, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.json"), "₹")
	require.NoError(t, err)
	require.NoError(t, l.UpdateProfile(d(50000), d(5000)))
	require.NoError(t, l.AddFixedExpense("Rent", d(20000)))

	j := &fakeJournal{}
	adv := advisor.New(nil, time.Second, advisor.DefaultBreakerSettings(), zap.NewNop())
	return l, j, NewService(l, adv, j, zap.NewNop())
}

func TestAnalyzeSafe(t *testing.T) {
	l, j, svc := setup(t)

	a, err := svc.Analyze(context.Background(), Request{Item: "Headphones", Cost: d(10000), Category: "wants"})
	require.NoError(t, err)

	assert.Equal(t, model.RiskSafe, a.Assessment.Status)
	assert.True(t, a.Assessment.RemainingBalance.Equal(d(20000)))
	assert.True(t, a.Snapshot.FreeCashFlow.Equal(d(30000)))
	assert.Equal(t, model.CategoryWants, a.Request.Category)
	assert.Equal(t, "₹", a.Currency)
	assert.Contains(t, a.Advice.Text, "within your budget")
	assert.NotEmpty(t, a.ID)

	txs, err := l.Transactions()
	require.NoError(t, err)
	assert.Empty(t, txs, "analysis never writes the ledger")

	require.Len(t, j.recorded, 1)
	assert.Equal(t, a.ID, j.recorded[0].ID)
	assert.False(t, j.recorded[0].Confirmed)
}

func TestAnalyzeThenConfirm(t *testing.T) {
	l, j, svc := setup(t)

	a, err := svc.Analyze(context.Background(), Request{Item: "Laptop", Cost: d(20000)})
	require.NoError(t, err)
	assert.Equal(t, model.RiskCaution, a.Assessment.Status)

	tx, err := svc.Confirm(a)
	require.NoError(t, err)
	assert.Equal(t, model.KindExpense, tx.Kind)
	assert.Equal(t, model.CategoryWants, tx.Category, "category defaults to Wants")

	txs, err := l.Transactions()
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Laptop", txs[0].Description)
	assert.Equal(t, []string{a.ID}, j.confirmed)

	_, err = svc.Confirm(a)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	// The confirmed purchase now reduces free cash flow.
	next, err := svc.Analyze(context.Background(), Request{Item: "Mouse", Cost: d(10001)})
	require.NoError(t, err)
	assert.Equal(t, model.RiskDanger, next.Assessment.Status)
	assert.Nil(t, next.Assessment.CostPercentage)
}

func TestAnalyzeValidation(t *testing.T) {
	_, j, svc := setup(t)

	var ve *model.ValidationError
	_, err := svc.Analyze(context.Background(), Request{Item: " ", Cost: d(1)})
	assert.ErrorAs(t, err, &ve)
	_, err = svc.Analyze(context.Background(), Request{Item: "x", Cost: d(-1)})
	assert.ErrorAs(t, err, &ve)
	_, err = svc.Analyze(context.Background(), Request{Item: "x", Cost: d(1), Category: "Toys"})
	assert.ErrorAs(t, err, &ve)

	assert.Empty(t, j.recorded)
}

func TestJournalFailureIsNotFatal(t *testing.T) {
	_, j, svc := setup(t)
	j.err = errors.New("disk full")

	a, err := svc.Analyze(context.Background(), Request{Item: "Book", Cost: d(100)})
	require.NoError(t, err)
	_, err = svc.Confirm(a)
	require.NoError(t, err)
}

func TestNilJournal(t *testing.T) {
	l, _, _ := setup(t)
	svc := NewService(l, advisor.New(nil, 0, advisor.DefaultBreakerSettings(), nil), nil, nil)

	a, err := svc.Analyze(context.Background(), Request{Item: "Book", Cost: d(100), Category: model.CategoryNeeds})
	require.NoError(t, err)
	_, err = svc.Confirm(a)
	require.NoError(t, err)
}
