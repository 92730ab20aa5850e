package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/walletmom/internal/model"
)

func init() {
	// Amounts are stored as JSON numbers, matching documents written by
	// earlier versions of the tool.
	decimal.MarshalJSONWithoutQuotes = true
}

// Document is the whole persisted ledger.
type Document struct {
	UserProfile   model.UserProfile    `json:"user_profile" yaml:"user_profile"`
	FixedExpenses []model.FixedExpense `json:"fixed_expenses" yaml:"fixed_expenses"`
	Transactions  []model.Transaction  `json:"transactions" yaml:"transactions"`
	// BudgetPlan is a display cache. Nothing reads it back to make a decision.
	BudgetPlan json.RawMessage `json:"budget_plan,omitempty" yaml:"-"`
}

func currencyOr(currency string) string {
	if currency == "" {
		return model.DefaultCurrency
	}
	return currency
}

func newDocument(currency string) *Document {
	return &Document{
		UserProfile: model.UserProfile{
			MonthlyIncome: decimal.Zero,
			SavingsGoal:   decimal.Zero,
			Currency:      currencyOr(currency),
		},
		FixedExpenses: []model.FixedExpense{},
		Transactions:  []model.Transaction{},
	}
}

// wireTransaction accepts both the current keys and the legacy
// date/type keys.
type wireTransaction struct {
	Timestamp   string          `json:"timestamp,omitempty"`
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Kind        string          `json:"kind,omitempty"`
	Type        string          `json:"type,omitempty"`
}

type wireDocument struct {
	UserProfile   *model.UserProfile   `json:"user_profile"`
	FixedExpenses []model.FixedExpense `json:"fixed_expenses"`
	Transactions  []wireTransaction    `json:"transactions"`
	BudgetPlan    json.RawMessage      `json:"budget_plan,omitempty"`
}

// timestampLayouts covers RFC 3339 plus the naive ISO form written by
// the original tool.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func decodeDocument(data []byte, defaultCurrency string) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrCorrupt)
	}

	// the top level must be exactly one object; null or a second value
	// would otherwise decode as an empty or partial ledger
	var top map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: document is not an object", ErrCorrupt)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrCorrupt)
	}

	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	doc := newDocument(defaultCurrency)
	if w.UserProfile != nil {
		doc.UserProfile = *w.UserProfile
		if doc.UserProfile.Currency == "" {
			doc.UserProfile.Currency = currencyOr(defaultCurrency)
		}
	}
	if w.FixedExpenses != nil {
		doc.FixedExpenses = w.FixedExpenses
	}
	doc.BudgetPlan = w.BudgetPlan

	for i, wt := range w.Transactions {
		tx, err := wt.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", ErrCorrupt, i, err)
		}
		doc.Transactions = append(doc.Transactions, tx)
	}

	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return doc, nil
}

func (wt wireTransaction) toModel() (model.Transaction, error) {
	raw := wt.Timestamp
	if raw == "" {
		raw = wt.Date
	}
	ts, err := parseTimestamp(raw)
	if err != nil {
		return model.Transaction{}, err
	}

	kindStr := wt.Kind
	if kindStr == "" {
		kindStr = wt.Type
	}
	kind, err := model.ParseKind(kindStr)
	if err != nil {
		return model.Transaction{}, err
	}
	cat, err := model.ParseCategory(wt.Category)
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		Timestamp:   ts,
		Description: wt.Description,
		Amount:      wt.Amount,
		Category:    cat,
		Kind:        kind,
	}, nil
}

func (d *Document) validate() error {
	if err := model.RequireNonNegative("monthly_income", d.UserProfile.MonthlyIncome); err != nil {
		return err
	}
	if err := model.RequireNonNegative("savings_goal", d.UserProfile.SavingsGoal); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(d.FixedExpenses))
	for _, e := range d.FixedExpenses {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("duplicate fixed expense %q", e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	for i, tx := range d.Transactions {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return nil
}

func encodeDocument(d *Document) ([]byte, error) {
	txs := make([]wireTransaction, len(d.Transactions))
	for i, tx := range d.Transactions {
		txs[i] = wireTransaction{
			Timestamp:   tx.Timestamp.Format(time.RFC3339Nano),
			Description: tx.Description,
			Amount:      tx.Amount,
			Category:    string(tx.Category),
			Kind:        string(tx.Kind),
		}
	}

	profile := d.UserProfile
	w := wireDocument{
		UserProfile:   &profile,
		FixedExpenses: d.FixedExpenses,
		Transactions:  txs,
		BudgetPlan:    d.BudgetPlan,
	}
	if w.FixedExpenses == nil {
		w.FixedExpenses = []model.FixedExpense{}
	}

	data, err := json.MarshalIndent(w, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// clone returns a deep copy so callers cannot mutate ledger state.
func (d *Document) clone() *Document {
	out := *d
	out.FixedExpenses = append([]model.FixedExpense(nil), d.FixedExpenses...)
	out.Transactions = append([]model.Transaction(nil), d.Transactions...)
	out.BudgetPlan = append(json.RawMessage(nil), d.BudgetPlan...)
	return &out
}
