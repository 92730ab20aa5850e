package source

import "github.com/shopspring/decimal"

// Format is the layout of an export file.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// RawEntry is one line of a JSONL transaction export. The date and type
// keys are accepted as aliases of timestamp and kind.
type RawEntry struct {
	Timestamp   string          `json:"timestamp,omitempty"`
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Kind        string          `json:"kind,omitempty"`
	Type        string          `json:"type,omitempty"`
}

// DiscoveredFile is an export file found during scanning.
type DiscoveredFile struct {
	Path   string
	Format Format
}
