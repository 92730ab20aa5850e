package ledger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/walletmom/internal/model"
)

func openTemp(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.json")
	l, err := Open(path, "")
	require.NoError(t, err)
	return l, path
}

func TestOpenInitialisesMissingFile(t *testing.T) {
	l, path := openTemp(t)

	_, err := os.Stat(path)
	require.NoError(t, err, "first use should persist an empty ledger")

	p, err := l.Profile()
	require.NoError(t, err)
	assert.True(t, p.MonthlyIncome.IsZero())
	assert.True(t, p.SavingsGoal.IsZero())
	assert.Equal(t, model.DefaultCurrency, p.Currency)

	exps, err := l.FixedExpenses()
	require.NoError(t, err)
	assert.Empty(t, exps)

	txs, err := l.Transactions()
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestOpenUsesConfiguredCurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.json")
	l, err := Open(path, "$")
	require.NoError(t, err)

	p, err := l.Profile()
	require.NoError(t, err)
	assert.Equal(t, "$", p.Currency)
}

func TestOpenCorruptDocument(t *testing.T) {
	for name, body := range map[string]string{
		"garbage":         "{not json",
		"empty":           "",
		"negative amount": `{"user_profile":{"monthly_income":-5,"savings_goal":0,"currency":"₹"},"fixed_expenses":[],"transactions":[]}`,
		"bad category":    `{"transactions":[{"timestamp":"2024-01-02T10:00:00Z","description":"x","amount":1,"category":"Toys","kind":"expense"}]}`,
		"null":            "null",
		"array":           "[]",
		"trailing data":   `{"user_profile":{"monthly_income":100,"savings_goal":0,"currency":"₹"}} trailing-garbage`,
		"two documents": `{"user_profile":{"monthly_income":100,"savings_goal":0,"currency":"₹"}}
{"user_profile":{"monthly_income":999,"savings_goal":0,"currency":"₹"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ledger.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			_, err := Open(path, "")
			require.Error(t, err)

			var se *StorageError
			require.True(t, errors.As(err, &se), "want StorageError, got %T", err)
			assert.True(t, errors.Is(err, ErrCorrupt))

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, body, string(after), "corrupt file must not be overwritten")
		})
	}
}

func TestFixedExpenseUpsert(t *testing.T) {
	l, _ := openTemp(t)

	require.NoError(t, l.AddFixedExpense("Rent", decimal.NewFromInt(500)))
	require.NoError(t, l.AddFixedExpense("Internet", decimal.NewFromInt(50)))
	require.NoError(t, l.AddFixedExpense("Rent", decimal.NewFromInt(600)))

	exps, err := l.FixedExpenses()
	require.NoError(t, err)
	require.Len(t, exps, 2)
	assert.Equal(t, "Internet", exps[0].Name)
	assert.Equal(t, "Rent", exps[1].Name, "updated entry moves to the end")
	assert.True(t, exps[1].Amount.Equal(decimal.NewFromInt(600)))
}

func TestValidationRejectedBeforeWrite(t *testing.T) {
	l, path := openTemp(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	var ve *model.ValidationError
	assert.ErrorAs(t, l.AddFixedExpense("", decimal.NewFromInt(10)), &ve)
	assert.ErrorAs(t, l.AddFixedExpense("Gym", decimal.NewFromInt(-1)), &ve)
	assert.ErrorAs(t, l.UpdateProfile(decimal.NewFromInt(-1), decimal.Zero), &ve)
	assert.ErrorAs(t, l.LogTransaction(model.Transaction{
		Timestamp: time.Now(), Amount: decimal.NewFromInt(-3),
		Category: model.CategoryWants, Kind: model.KindExpense,
	}), &ve)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestRoundTripAcrossReopen(t *testing.T) {
	l, path := openTemp(t)

	require.NoError(t, l.UpdateProfile(decimal.NewFromInt(50000), decimal.NewFromInt(5000)))
	require.NoError(t, l.SetCurrency("€"))
	ts := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, l.LogTransaction(model.Transaction{
		Timestamp:   ts,
		Description: "Headphones",
		Amount:      decimal.RequireFromString("2499.50"),
		Category:    model.CategoryWants,
		Kind:        model.KindExpense,
	}))

	reopened, err := Open(path, "")
	require.NoError(t, err)

	p, err := reopened.Profile()
	require.NoError(t, err)
	assert.True(t, p.MonthlyIncome.Equal(decimal.NewFromInt(50000)))
	assert.True(t, p.SavingsGoal.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "€", p.Currency)

	txs, err := reopened.Transactions()
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Timestamp.Equal(ts))
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("2499.5")))
}

func TestAmountsPersistAsNumbers(t *testing.T) {
	l, path := openTemp(t)
	require.NoError(t, l.AddFixedExpense("Rent", decimal.NewFromInt(600)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	exps := raw["fixed_expenses"].([]any)
	amount := exps[0].(map[string]any)["amount"]
	assert.IsType(t, float64(0), amount)
}

func TestLegacyDocument(t *testing.T) {
	body := `{
    "user_profile": {"monthly_income": 40000, "savings_goal": 2000, "currency": "₹"},
    "fixed_expenses": [{"name": "Rent", "amount": 15000}],
    "transactions": [
        {"date": "2024-02-01T18:22:05.123456", "description": "Pizza", "amount": 450.0, "category": "wants", "type": "expense"},
        {"date": "2024-02-02T09:00:00", "description": "Refund", "amount": 100, "category": "Unexpected", "type": "income"}
    ]
}`
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	l, err := Open(path, "")
	require.NoError(t, err)

	txs, err := l.Transactions()
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, model.CategoryWants, txs[0].Category)
	assert.Equal(t, model.KindExpense, txs[0].Kind)
	assert.Equal(t, 2024, txs[0].Timestamp.Year())
	assert.Equal(t, model.KindIncome, txs[1].Kind)

	// Rewriting upgrades the keys.
	require.NoError(t, l.AddFixedExpense("Internet", decimal.NewFromInt(700)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp"`)
	assert.NotContains(t, string(data), `"date"`)
}

func TestSaveBudgetPlan(t *testing.T) {
	l, _ := openTemp(t)
	plan := model.BudgetPlan{
		Status:             model.PlanSurplus,
		Strategy:           "Needs-First Allocation",
		NeedsTotal:         decimal.NewFromInt(20000),
		DiscretionaryTotal: decimal.NewFromInt(30000),
		RecommendedSavings: decimal.NewFromInt(12000),
		RecommendedWants:   decimal.NewFromInt(18000),
	}
	require.NoError(t, l.SaveBudgetPlan(plan))

	doc, err := l.Document()
	require.NoError(t, err)
	var saved map[string]any
	require.NoError(t, json.Unmarshal(doc.BudgetPlan, &saved))
	assert.Equal(t, "surplus", saved["status"])
	assert.InDelta(t, 12000, saved["recommended_savings"], 1e-9)
}

func TestReadOnlyNeverWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	r := NewReadOnly(path, "$")

	p, err := r.Profile()
	require.NoError(t, err)
	assert.Equal(t, "$", p.Currency)
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "missing file stays missing")

	l, err := Open(path, "$")
	require.NoError(t, err)
	require.NoError(t, l.AddFixedExpense("Rent", decimal.NewFromInt(700)))

	exps, err := r.FixedExpenses()
	require.NoError(t, err)
	require.Len(t, exps, 1)

	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o600))
	_, err = r.Transactions()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestImportTransactionsSkipsDuplicates(t *testing.T) {
	l, _ := openTemp(t)
	at := time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC)
	tx := model.Transaction{
		Timestamp: at, Description: "Coffee", Amount: decimal.RequireFromString("120.00"),
		Category: model.CategoryWants, Kind: model.KindExpense,
	}
	require.NoError(t, l.LogTransaction(tx))

	dup := tx
	dup.Amount = decimal.NewFromInt(120)
	dup.Description = "coffee "
	fresh := tx
	fresh.Timestamp = at.Add(time.Hour)

	added, err := l.ImportTransactions([]model.Transaction{dup, fresh, fresh})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	txs, err := l.Transactions()
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	added, err = l.ImportTransactions([]model.Transaction{fresh})
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestImportTransactionsValidatesFirst(t *testing.T) {
	l, _ := openTemp(t)
	bad := model.Transaction{Timestamp: time.Now(), Description: "x", Amount: decimal.NewFromInt(-1),
		Category: model.CategoryWants, Kind: model.KindExpense}

	_, err := l.ImportTransactions([]model.Transaction{bad})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)

	txs, err := l.Transactions()
	require.NoError(t, err)
	assert.Empty(t, txs)
}
