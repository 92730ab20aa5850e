package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/walletmom/internal/model"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAssessScenarios(t *testing.T) {
	tests := []struct {
		name      string
		balance   int64
		cost      int64
		status    model.RiskStatus
		remaining int64
		pct       string // empty means absent
	}{
		{"safe", 30000, 10000, model.RiskSafe, 20000, "33.33"},
		{"caution", 30000, 20000, model.RiskCaution, 10000, "66.67"},
		{"danger", 5000, 6000, model.RiskDanger, -1000, ""},
		{"exactly half is safe", 1000, 500, model.RiskSafe, 500, "50"},
		{"whole balance is caution", 1000, 1000, model.RiskCaution, 0, "100"},
		{"zero balance zero cost", 0, 0, model.RiskSafe, 0, "0"},
		{"negative balance free item", -200, 0, model.RiskDanger, -200, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assess(Input{DiscretionaryBalance: d(tt.balance), ItemCost: d(tt.cost)})
			require.NoError(t, err)

			assert.Equal(t, tt.status, got.Status)
			assert.True(t, got.RemainingBalance.Equal(d(tt.remaining)), "remaining = %s, want %d", got.RemainingBalance, tt.remaining)
			if tt.pct == "" {
				assert.Nil(t, got.CostPercentage)
				return
			}
			require.NotNil(t, got.CostPercentage)
			assert.Equal(t, tt.pct, got.CostPercentage.Round(2).String())
		})
	}
}

func TestAssessReasons(t *testing.T) {
	got, err := Assess(Input{DiscretionaryBalance: d(5000), ItemCost: d(6000)})
	require.NoError(t, err)
	assert.Equal(t, ReasonDanger, got.Reason)

	got, err = Assess(Input{DiscretionaryBalance: d(30000), ItemCost: d(20000)})
	require.NoError(t, err)
	assert.Equal(t, ReasonCaution, got.Reason)

	got, err = Assess(Input{DiscretionaryBalance: d(30000), ItemCost: d(10)})
	require.NoError(t, err)
	assert.Equal(t, ReasonSafe, got.Reason)
}

func TestAssessIgnoresSavingsInputs(t *testing.T) {
	base := Input{DiscretionaryBalance: d(30000), ItemCost: d(10000)}
	with := base
	with.CurrentSavings = d(1)
	with.SavingsGoal = d(1000000)

	a, err := Assess(base)
	require.NoError(t, err)
	b, err := Assess(with)
	require.NoError(t, err)
	assert.Equal(t, a.Status, b.Status)
	assert.True(t, a.RemainingBalance.Equal(b.RemainingBalance))
}

func TestAssessRejectsNegativeCost(t *testing.T) {
	_, err := Assess(Input{DiscretionaryBalance: d(100), ItemCost: d(-1)})
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAssessWithinBalanceNeverDanger(t *testing.T) {
	for balance := int64(0); balance <= 2000; balance += 97 {
		for cost := int64(0); cost <= balance; cost += 13 {
			got, err := Assess(Input{DiscretionaryBalance: d(balance), ItemCost: d(cost)})
			require.NoError(t, err)
			assert.NotEqual(t, model.RiskDanger, got.Status, "balance %d cost %d", balance, cost)
			assert.NotNil(t, got.CostPercentage)
		}
	}
}

func TestAssessBeyondBalanceAlwaysDanger(t *testing.T) {
	for balance := int64(-500); balance <= 2000; balance += 101 {
		for extra := int64(1); extra <= 1000; extra += 333 {
			cost := balance + extra
			if cost < 0 {
				continue
			}
			got, err := Assess(Input{DiscretionaryBalance: d(balance), ItemCost: d(cost)})
			require.NoError(t, err)
			assert.Equal(t, model.RiskDanger, got.Status, "balance %d cost %d", balance, cost)
			assert.Nil(t, got.CostPercentage)
		}
	}
}

func TestAssessDeterministic(t *testing.T) {
	in := Input{DiscretionaryBalance: d(12345), ItemCost: d(6789)}
	first, err := Assess(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Assess(in)
		require.NoError(t, err)
		assert.Equal(t, first.Status, again.Status)
		assert.True(t, first.CostPercentage.Equal(*again.CostPercentage))
	}
}
