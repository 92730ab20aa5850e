package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Wants", CategoryWants},
		{"wants", CategoryWants},
		{" NEEDS ", CategoryNeeds},
		{"unexpected", CategoryUnexpected},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		require.NoError(t, err, "ParseCategory(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseCategory("Toys")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "category", ve.Field)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Income")
	require.NoError(t, err)
	assert.Equal(t, KindIncome, k)

	_, err = ParseKind("refund")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("cost", "1,250.75")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1250.75")))

	var ve *ValidationError
	_, err = ParseAmount("cost", "-3")
	assert.ErrorAs(t, err, &ve)
	_, err = ParseAmount("cost", "lots")
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "invalid cost")
}

func TestTransactionValidate(t *testing.T) {
	ok := Transaction{
		Timestamp: time.Now(), Description: "x", Amount: decimal.NewFromInt(5),
		Category: CategoryWants, Kind: KindExpense,
	}
	assert.NoError(t, ok.Validate())
	assert.True(t, ok.IsExpense())

	noTime := ok
	noTime.Timestamp = time.Time{}
	assert.Error(t, noTime.Validate())

	badKind := ok
	badKind.Kind = "gift"
	assert.Error(t, badKind.Validate())
}

func TestFixedExpenseValidate(t *testing.T) {
	assert.NoError(t, FixedExpense{Name: "Rent", Amount: decimal.Zero}.Validate())
	assert.Error(t, FixedExpense{Name: "  ", Amount: decimal.NewFromInt(1)}.Validate())
	assert.Error(t, FixedExpense{Name: "Rent", Amount: decimal.NewFromInt(-1)}.Validate())
}

func TestBudgetPlanJSONShapes(t *testing.T) {
	deficit := BudgetPlan{Status: PlanDeficit, NeedsGap: decimal.NewFromInt(10000)}
	raw, err := json.Marshal(deficit)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "deficit", got["status"])
	assert.Contains(t, got, "needs_gap")
	assert.Contains(t, got, "discretionary")
	assert.NotContains(t, got, "recommended_wants")

	surplus := BudgetPlan{Status: PlanSurplus, DiscretionaryTotal: decimal.NewFromInt(10)}
	raw, err = json.Marshal(surplus)
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Contains(t, got, "recommended_savings")
	assert.NotContains(t, got, "needs_gap")
}

func TestSnapshotEqual(t *testing.T) {
	a := FinancialSnapshot{Income: decimal.RequireFromString("10.0")}
	b := FinancialSnapshot{Income: decimal.NewFromInt(10)}
	assert.True(t, a.Equal(b))
	b.FreeCashFlow = decimal.NewFromInt(1)
	assert.False(t, a.Equal(b))
}
