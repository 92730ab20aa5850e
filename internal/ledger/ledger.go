// Package ledger persists the user profile, fixed expenses and the
// transaction log in a single JSON document.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/walletmom/internal/model"
)

// Ledger is the durable store. Every mutation re-reads the document,
// applies the change and rewrites the whole file before returning.
type Ledger struct {
	mu              sync.Mutex
	path            string
	defaultCurrency string
}

// Open loads the ledger at path, creating and persisting an empty one
// if no file exists yet. A file that exists but does not decode is an
// error; it is never overwritten.
func Open(path, defaultCurrency string) (*Ledger, error) {
	l := &Ledger{path: path, defaultCurrency: defaultCurrency}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := l.write(newDocument(defaultCurrency)); err != nil {
			return nil, err
		}
		return l, nil
	} else if err != nil {
		return nil, &StorageError{Op: "stat", Path: path, Err: err}
	}

	if _, err := l.read(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the document location.
func (l *Ledger) Path() string {
	return l.path
}

func (l *Ledger) read() (*Document, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, &StorageError{Op: "read", Path: l.path, Err: err}
	}
	doc, err := decodeDocument(data, l.defaultCurrency)
	if err != nil {
		return nil, &StorageError{Op: "decode", Path: l.path, Err: err}
	}
	return doc, nil
}

// write replaces the document atomically via a temp file in the same
// directory.
func (l *Ledger) write(doc *Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return &StorageError{Op: "encode", Path: l.path, Err: err}
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &StorageError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return &StorageError{Op: "write", Path: l.path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StorageError{Op: "write", Path: l.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StorageError{Op: "sync", Path: l.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &StorageError{Op: "write", Path: l.path, Err: err}
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		cleanup()
		return &StorageError{Op: "rename", Path: l.path, Err: err}
	}
	return nil
}

// mutate runs fn against a fresh copy of the document and persists the
// result if fn succeeds.
func (l *Ledger) mutate(fn func(*Document) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return l.write(doc)
}

func (l *Ledger) snapshot() (*Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

// Profile returns the current user profile.
func (l *Ledger) Profile() (model.UserProfile, error) {
	doc, err := l.snapshot()
	if err != nil {
		return model.UserProfile{}, err
	}
	return doc.UserProfile, nil
}

// UpdateProfile overwrites income and savings goal.
func (l *Ledger) UpdateProfile(income, savingsGoal decimal.Decimal) error {
	if err := model.RequireNonNegative("monthly income", income); err != nil {
		return err
	}
	if err := model.RequireNonNegative("savings goal", savingsGoal); err != nil {
		return err
	}
	return l.mutate(func(d *Document) error {
		d.UserProfile.MonthlyIncome = income
		d.UserProfile.SavingsGoal = savingsGoal
		return nil
	})
}

// SetCurrency changes the display symbol. It does not convert amounts.
func (l *Ledger) SetCurrency(symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if err := model.RequireName("currency", symbol); err != nil {
		return err
	}
	return l.mutate(func(d *Document) error {
		d.UserProfile.Currency = symbol
		return nil
	})
}

// AddFixedExpense inserts or replaces the expense with this name. A
// replaced entry moves to the end of the list.
func (l *Ledger) AddFixedExpense(name string, amount decimal.Decimal) error {
	exp := model.FixedExpense{Name: strings.TrimSpace(name), Amount: amount}
	if err := exp.Validate(); err != nil {
		return err
	}
	return l.mutate(func(d *Document) error {
		kept := d.FixedExpenses[:0]
		for _, e := range d.FixedExpenses {
			if e.Name != exp.Name {
				kept = append(kept, e)
			}
		}
		d.FixedExpenses = append(kept, exp)
		return nil
	})
}

// FixedExpenses returns every fixed expense in stored order.
func (l *Ledger) FixedExpenses() ([]model.FixedExpense, error) {
	doc, err := l.snapshot()
	if err != nil {
		return nil, err
	}
	return doc.FixedExpenses, nil
}

// LogTransaction appends tx to the log.
func (l *Ledger) LogTransaction(tx model.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	return l.mutate(func(d *Document) error {
		d.Transactions = append(d.Transactions, tx)
		return nil
	})
}

// ImportTransactions appends txs in one write, skipping any that match
// an existing entry on timestamp, description and amount. It returns
// how many were added.
func (l *Ledger) ImportTransactions(txs []model.Transaction) (int, error) {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return 0, err
		}
	}

	added := 0
	err := l.mutate(func(d *Document) error {
		seen := make(map[string]struct{}, len(d.Transactions)+len(txs))
		for _, tx := range d.Transactions {
			seen[importKey(tx)] = struct{}{}
		}
		for _, tx := range txs {
			k := importKey(tx)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			d.Transactions = append(d.Transactions, tx)
			added++
		}
		if added == 0 {
			return errNothingToWrite
		}
		return nil
	})
	if errors.Is(err, errNothingToWrite) {
		return 0, nil
	}
	return added, err
}

var errNothingToWrite = errors.New("nothing to write")

func importKey(tx model.Transaction) string {
	return tx.Timestamp.UTC().Format(time.RFC3339Nano) + "|" +
		strings.ToLower(strings.TrimSpace(tx.Description)) + "|" +
		tx.Amount.String()
}

// Transactions returns the full log in insertion order.
func (l *Ledger) Transactions() ([]model.Transaction, error) {
	doc, err := l.snapshot()
	if err != nil {
		return nil, err
	}
	return doc.Transactions, nil
}

// SaveBudgetPlan stores plan for display. Nothing reads it back when
// making a decision.
func (l *Ledger) SaveBudgetPlan(plan model.BudgetPlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encoding budget plan: %w", err)
	}
	return l.mutate(func(d *Document) error {
		d.BudgetPlan = raw
		return nil
	})
}

// Document returns a copy of the whole ledger, for export.
func (l *Ledger) Document() (*Document, error) {
	doc, err := l.snapshot()
	if err != nil {
		return nil, err
	}
	return doc.clone(), nil
}
