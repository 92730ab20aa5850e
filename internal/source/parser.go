// Package source discovers and parses transaction export files (JSONL
// and CSV) for import into a ledger.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/walletmom/internal/model"
)

// Options controls how rows without a category or kind are read.
type Options struct {
	DefaultCategory model.Category
}

// ParseResult holds the output of parsing a single export file.
type ParseResult struct {
	Transactions []model.Transaction
	ParseErrors  int
	// FirstError describes the first rejected row, for display.
	FirstError string
	Err        error
}

func (r *ParseResult) reject(line int, err error) {
	r.ParseErrors++
	if r.FirstError == "" {
		r.FirstError = fmt.Sprintf("line %d: %v", line, err)
	}
}

// ParseFile reads an export file. Rows that fail to parse or validate
// are counted and skipped; only I/O failures set Err.
func ParseFile(df DiscoveredFile, opts Options) ParseResult {
	if opts.DefaultCategory == "" {
		opts.DefaultCategory = model.CategoryWants
	}
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	if df.Format == FormatCSV {
		return parseCSV(f, opts)
	}
	return parseJSONL(f, opts)
}

var bom = []byte("\xef\xbb\xbf")

func parseJSONL(r io.Reader, opts Options) ParseResult {
	var res ParseResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(bytes.TrimPrefix(scanner.Bytes(), bom))
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var entry RawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			res.reject(lineNo, err)
			continue
		}
		tx, err := entry.toModel(opts)
		if err != nil {
			res.reject(lineNo, err)
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}
	return res
}

// csvColumns maps accepted header names to RawEntry fields.
var csvColumns = map[string]string{
	"timestamp":   "timestamp",
	"date":        "timestamp",
	"description": "description",
	"memo":        "description",
	"narration":   "description",
	"amount":      "amount",
	"category":    "category",
	"kind":        "kind",
	"type":        "kind",
}

func parseCSV(r io.Reader, opts Options) ParseResult {
	var res ParseResult

	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res
		}
		return ParseResult{Err: fmt.Errorf("reading csv header: %w", err)}
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(string(bytes.TrimPrefix([]byte(h), bom))))
		if field, ok := csvColumns[h]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	for _, required := range []string{"timestamp", "description", "amount"} {
		if _, ok := cols[required]; !ok {
			return ParseResult{Err: fmt.Errorf("csv header has no %s column", required)}
		}
	}

	lineNo := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		lineNo++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.reject(lineNo, err)
				continue
			}
			return ParseResult{Err: err}
		}

		get := func(field string) string {
			if i, ok := cols[field]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		amount, err := parseSignedAmount(get("amount"))
		if err != nil {
			res.reject(lineNo, err)
			continue
		}
		entry := RawEntry{
			Timestamp:   get("timestamp"),
			Description: get("description"),
			Amount:      amount,
			Category:    get("category"),
			Kind:        get("kind"),
		}
		tx, err := entry.toModel(opts)
		if err != nil {
			res.reject(lineNo, err)
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	return res
}

// parseSignedAmount accepts thousands separators, a leading currency
// symbol and a sign.
func parseSignedAmount(raw string) (decimal.Decimal, error) {
	notNumeric := func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	}
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	// Currency may sit on either side of the sign: "$-12.50", "-$12.50".
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return notNumeric(r) && !strings.ContainsRune("-+(", r)
	})
	neg := strings.HasPrefix(s, "-") || (strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"))
	s = strings.Trim(s, "-()+ ")
	s = strings.TrimLeftFunc(s, notNumeric)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &model.ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// toModel applies defaults and validation. Without an explicit kind a
// negative amount is read as money out, as bank exports write debits.
func (e RawEntry) toModel(opts Options) (model.Transaction, error) {
	stamp := e.Timestamp
	if stamp == "" {
		stamp = e.Date
	}
	ts, err := parseTimestamp(stamp)
	if err != nil {
		return model.Transaction{}, err
	}

	kindText := e.Kind
	if kindText == "" {
		kindText = e.Type
	}
	amount := e.Amount
	kind := model.KindExpense
	if kindText != "" {
		if kind, err = model.ParseKind(kindText); err != nil {
			return model.Transaction{}, err
		}
	}
	if amount.IsNegative() {
		if kindText != "" {
			return model.Transaction{}, &model.ValidationError{Field: "amount", Reason: "must not be negative when kind is given"}
		}
		amount = amount.Neg()
	}

	cat := opts.DefaultCategory
	if e.Category != "" {
		if cat, err = model.ParseCategory(e.Category); err != nil {
			return model.Transaction{}, err
		}
	}

	tx := model.Transaction{
		Timestamp:   ts,
		Description: strings.TrimSpace(e.Description),
		Amount:      amount,
		Category:    cat,
		Kind:        kind,
	}
	if err := model.RequireName("description", tx.Description); err != nil {
		return model.Transaction{}, err
	}
	return tx, tx.Validate()
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &model.ValidationError{Field: "timestamp", Reason: "is required"}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &model.ValidationError{Field: "timestamp", Reason: fmt.Sprintf("%q is not a date", s)}
}
