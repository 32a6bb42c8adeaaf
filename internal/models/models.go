// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical record every parser produces and every
// aggregator consumes. Amounts are signed: negative values are outflows
// (expenses), positive values are inflows. The balance reconstructor and the
// category aggregator both rely on that convention.
type Transaction struct {
	ID          string          `json:"id,omitempty"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	AccountID   string          `json:"account_id"`
	AccountType string          `json:"account_type"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
}

// Day returns the transaction date truncated to calendar-day granularity in UTC.
// Aggregations group by this value.
func (t Transaction) Day() time.Time {
	y, m, d := t.Date.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// Batch is the set of transactions parsed from one uploaded file. All
// transactions of a batch share the account id, account type, currency and
// trailing balance replicated from that file's statement header.
type Batch struct {
	SourceFile   string        `json:"source_file"`
	Transactions []Transaction `json:"transactions"`
}

// Empty reports whether the batch holds no transactions.
func (b Batch) Empty() bool {
	return len(b.Transactions) == 0
}

// Clone returns a copy of the batch with its own transaction slice, so a
// caller can hand the copy out without exposing the authoritative one.
func (b Batch) Clone() Batch {
	out := Batch{SourceFile: b.SourceFile}
	if len(b.Transactions) > 0 {
		out.Transactions = make([]Transaction, len(b.Transactions))
		copy(out.Transactions, b.Transactions)
	}
	return out
}

// Defaults back-filled when a source format carries no account metadata,
// e.g. transactions restored from a parquet archive.
const (
	DefaultAccountID   = "archival-import"
	DefaultAccountType = "checking"
	DefaultCurrency    = "EUR"
)

// dateLayouts are the date representations OFX exports and parquet archives
// actually produce. Ordered from most to least common.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"20060102",
	"02.01.2006",
	"02/01/2006",
}

// ParseDate parses a date string in any of the layouts found in bank export
// data, preferring day-first interpretations for ambiguous European formats.
func ParseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
