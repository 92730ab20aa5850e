package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/walletmom/internal/model"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "sub", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func decision(at time.Time, status model.RiskStatus, pct *decimal.Decimal) model.Decision {
	return model.Decision{
		ID:               uuid.NewString(),
		At:               at,
		Item:             "Phone",
		Cost:             decimal.RequireFromString("20000.50"),
		Category:         model.CategoryWants,
		Status:           status,
		Reason:           "r",
		RemainingBalance: decimal.RequireFromString("9999.50"),
		CostPercentage:   pct,
		Provider:         "template",
	}
}

func TestRecordAndRecent(t *testing.T) {
	j := openJournal(t)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	pct := decimal.RequireFromString("66.67")

	first := decision(base, model.RiskCaution, &pct)
	second := decision(base.Add(time.Hour), model.RiskDanger, nil)
	second.FellBack = true
	require.NoError(t, j.Record(first))
	require.NoError(t, j.Record(second))

	got, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, second.ID, got[0].ID, "newest first")
	assert.Nil(t, got[0].CostPercentage)
	assert.True(t, got[0].FellBack)

	assert.Equal(t, first.ID, got[1].ID)
	require.NotNil(t, got[1].CostPercentage)
	assert.True(t, got[1].CostPercentage.Equal(pct))
	assert.True(t, got[1].Cost.Equal(first.Cost))
	assert.True(t, got[1].RemainingBalance.Equal(first.RemainingBalance))
	assert.True(t, got[1].At.Equal(base))
	assert.Equal(t, model.CategoryWants, got[1].Category)
}

func TestMarkConfirmed(t *testing.T) {
	j := openJournal(t)
	d := decision(time.Now(), model.RiskSafe, nil)
	require.NoError(t, j.Record(d))

	require.NoError(t, j.MarkConfirmed(d.ID, time.Now()))
	got, err := j.Recent(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Confirmed)

	assert.ErrorIs(t, j.MarkConfirmed("missing", time.Now()), ErrNotFound)
}

func TestCounts(t *testing.T) {
	j := openJournal(t)
	now := time.Now()
	for _, s := range []model.RiskStatus{model.RiskSafe, model.RiskSafe, model.RiskDanger} {
		require.NoError(t, j.Record(decision(now, s, nil)))
	}

	counts, err := j.Counts()
	require.NoError(t, err)
	assert.Equal(t, 2, counts[model.RiskSafe])
	assert.Equal(t, 1, counts[model.RiskDanger])
	assert.Equal(t, 0, counts[model.RiskCaution])

	n, err := j.DecisionCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRecentLimit(t *testing.T) {
	j := openJournal(t)
	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(decision(base.Add(time.Duration(i)*time.Minute), model.RiskSafe, nil)))
	}
	got, err := j.Recent(3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRecentRejectsCorruptRow(t *testing.T) {
	j := openJournal(t)
	require.NoError(t, j.Record(decision(time.Now(), model.RiskSafe, nil)))

	_, err := j.db.Exec(`INSERT INTO decisions
		(id, decided_at, item, cost, category, status, reason, remaining_balance, provider)
		VALUES ('bad', 'yesterday', 'Phone', '10', 'wants', 'SAFE', 'r', '5', 'template')`)
	require.NoError(t, err)

	_, err = j.Recent(10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decision bad time")
}
