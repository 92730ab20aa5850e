package cmd

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/walletmom/internal/ledger"
	"github.com/theirongolddev/walletmom/internal/model"
)

func TestJSONToYAMLKeepsNumbers(t *testing.T) {
	doc := &ledger.Document{
		UserProfile:   model.UserProfile{MonthlyIncome: decimal.RequireFromString("50000.50"), Currency: "₹"},
		FixedExpenses: []model.FixedExpense{{Name: "Rent", Amount: decimal.NewFromInt(20000)}},
		Transactions: []model.Transaction{{
			Timestamp:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			Description: "Groceries",
			Amount:      decimal.NewFromInt(1200),
			Category:    model.CategoryNeeds,
			Kind:        model.KindExpense,
		}},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	out, err := jsonToYAML(raw)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "monthly_income: 50000.5")
	assert.Contains(t, text, "- name: Rent")
	assert.NotContains(t, text, "{", "block style only")

	var back struct {
		UserProfile struct {
			MonthlyIncome float64 `yaml:"monthly_income"`
			Currency      string  `yaml:"currency"`
		} `yaml:"user_profile"`
		Transactions []struct {
			Timestamp   string  `yaml:"timestamp"`
			Description string  `yaml:"description"`
			Amount      float64 `yaml:"amount"`
		} `yaml:"transactions"`
	}
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.InDelta(t, 50000.5, back.UserProfile.MonthlyIncome, 1e-9)
	assert.Equal(t, "₹", back.UserProfile.Currency)
	require.Len(t, back.Transactions, 1)
	assert.Equal(t, "Groceries", back.Transactions[0].Description)
	assert.Equal(t, 1200.0, back.Transactions[0].Amount)
	assert.Equal(t, "2024-05-01T10:00:00Z", back.Transactions[0].Timestamp)
}

func TestJSONToYAMLRejectsGarbage(t *testing.T) {
	_, err := jsonToYAML([]byte("{\"a\": [1,"))
	assert.Error(t, err)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "hf_abc...wxyz", maskToken("hf_abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "hf_...", maskToken("hf_abcde"))
	assert.Equal(t, "****", maskToken("abc"))
}

func TestNewestFirst(t *testing.T) {
	mk := func(desc string, kind model.Kind) model.Transaction {
		return model.Transaction{Description: desc, Kind: kind}
	}
	txs := []model.Transaction{mk("a", model.KindExpense), mk("b", model.KindIncome), mk("c", model.KindExpense)}

	got := newestFirst(txs, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Description)
	assert.Equal(t, "b", got[1].Description, "income is listed too")

	assert.Len(t, newestFirst(txs, 0), 3)
	assert.Len(t, newestFirst(txs, 10), 3)
}

func TestTransactionTableMarksIncome(t *testing.T) {
	txs := []model.Transaction{
		{Timestamp: time.Now(), Description: "Bonus", Amount: decimal.NewFromInt(500), Kind: model.KindIncome, Category: model.CategoryWants},
		{Timestamp: time.Now(), Description: "Lunch", Amount: decimal.NewFromInt(200), Kind: model.KindExpense, Category: model.CategoryNeeds},
	}
	tbl := transactionTable("Recent", txs, "$")
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "+$500.00", tbl.Rows[0][3])
	assert.Equal(t, "$200.00", tbl.Rows[1][3])
	assert.Equal(t, "Needs", tbl.Rows[1][2])
}
