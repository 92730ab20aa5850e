// Package store provides a SQLite-backed journal of purchase decisions.
//
// The journal is an audit trail. Nothing in it is read back when
// assessing a purchase; the ledger document stays the source of truth.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/walletmom/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a decision ID is not in the journal.
var ErrNotFound = errors.New("store: decision not found")

// Journal records every assessment made.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at the given path.
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores a decision. Recording the same ID twice replaces it.
func (j *Journal) Record(d model.Decision) error {
	var pct sql.NullString
	if d.CostPercentage != nil {
		pct = sql.NullString{String: d.CostPercentage.String(), Valid: true}
	}

	_, err := j.db.Exec(`INSERT OR REPLACE INTO decisions
		(id, decided_at, item, cost, category, status, reason,
		 remaining_balance, cost_percentage, provider, fell_back, confirmed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.At.UTC().Format(timeLayout), d.Item, d.Cost.String(), string(d.Category),
		string(d.Status), d.Reason, d.RemainingBalance.String(), pct, d.Provider,
		boolInt(d.FellBack), boolInt(d.Confirmed),
	)
	if err != nil {
		return fmt.Errorf("recording decision %s: %w", d.ID, err)
	}
	return nil
}

// MarkConfirmed flags a decision as having been turned into a transaction.
func (j *Journal) MarkConfirmed(id string, at time.Time) error {
	res, err := j.db.Exec("UPDATE decisions SET confirmed = 1, confirmed_at = ? WHERE id = ?",
		at.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("confirming decision %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Recent returns up to limit decisions, newest first.
func (j *Journal) Recent(limit int) ([]model.Decision, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(`SELECT
		id, decided_at, item, cost, category, status, reason,
		remaining_balance, cost_percentage, provider, fell_back, confirmed
		FROM decisions ORDER BY decided_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Counts returns how many decisions were recorded per status.
func (j *Journal) Counts() (map[model.RiskStatus]int, error) {
	rows, err := j.db.Query("SELECT status, COUNT(*) FROM decisions GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[model.RiskStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		result[model.RiskStatus(status)] = n
	}
	return result, rows.Err()
}

// DecisionCount returns the number of journalled decisions.
func (j *Journal) DecisionCount() (int, error) {
	var count int
	err := j.db.QueryRow("SELECT COUNT(*) FROM decisions").Scan(&count)
	return count, err
}

func scanDecision(rows *sql.Rows) (model.Decision, error) {
	var d model.Decision
	var at, cost, category, status, remaining string
	var pct sql.NullString
	var fellBack, confirmed int

	err := rows.Scan(&d.ID, &at, &d.Item, &cost, &category, &status, &d.Reason,
		&remaining, &pct, &d.Provider, &fellBack, &confirmed)
	if err != nil {
		return d, err
	}

	if d.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
		return d, fmt.Errorf("decision %s time: %w", d.ID, err)
	}
	d.Category = model.Category(category)
	d.Status = model.RiskStatus(status)
	d.FellBack = fellBack != 0
	d.Confirmed = confirmed != 0

	if d.Cost, err = decimal.NewFromString(cost); err != nil {
		return d, fmt.Errorf("decision %s cost: %w", d.ID, err)
	}
	if d.RemainingBalance, err = decimal.NewFromString(remaining); err != nil {
		return d, fmt.Errorf("decision %s remaining: %w", d.ID, err)
	}
	if pct.Valid {
		p, err := decimal.NewFromString(pct.String)
		if err != nil {
			return d, fmt.Errorf("decision %s percentage: %w", d.ID, err)
		}
		d.CostPercentage = &p
	}
	return d, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
