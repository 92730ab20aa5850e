package ledger

import (
	"errors"
	"io/fs"
	"os"

	"github.com/theirongolddev/walletmom/internal/model"
)

// ReadOnly reads a ledger document without ever writing it. A missing
// file reads as an empty ledger.
type ReadOnly struct {
	path            string
	defaultCurrency string
}

// NewReadOnly returns a reader for the document at path.
func NewReadOnly(path, defaultCurrency string) *ReadOnly {
	return &ReadOnly{path: path, defaultCurrency: defaultCurrency}
}

// Path returns the document location.
func (r *ReadOnly) Path() string {
	return r.path
}

// Document reads and decodes the whole document.
func (r *ReadOnly) Document() (*Document, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return newDocument(r.defaultCurrency), nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: r.path, Err: err}
	}
	doc, err := decodeDocument(data, r.defaultCurrency)
	if err != nil {
		return nil, &StorageError{Op: "decode", Path: r.path, Err: err}
	}
	return doc, nil
}

// Profile implements pipeline.Source.
func (r *ReadOnly) Profile() (model.UserProfile, error) {
	doc, err := r.Document()
	if err != nil {
		return model.UserProfile{}, err
	}
	return doc.UserProfile, nil
}

// FixedExpenses implements pipeline.Source.
func (r *ReadOnly) FixedExpenses() ([]model.FixedExpense, error) {
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	return doc.FixedExpenses, nil
}

// Transactions implements pipeline.Source.
func (r *ReadOnly) Transactions() ([]model.Transaction, error) {
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	return doc.Transactions, nil
}
