// Package ledger owns the transaction ledger: the store of records, the
// derived view pipeline that projects them for display, the simulated
// refresh operation and the detail hand-off.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction (credit or debit)
type TransactionType string

const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TypeCredit || t == TypeDebit
}

// IsCredit returns true for credit transactions
func (t TransactionType) IsCredit() bool {
	return t == TypeCredit
}

// IsDebit returns true for debit transactions
func (t TransactionType) IsDebit() bool {
	return t == TypeDebit
}

// TypeFromString creates a TransactionType from a string (case-insensitive).
// Source data has carried both "Credit" and "credit" over time; lowercase is
// the canonical form and all other casings are normalized here.
func TypeFromString(value string) (TransactionType, error) {
	if value == "" {
		return "", fmt.Errorf("invalid transaction type: empty string")
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "credit":
		return TypeCredit, nil
	case "debit":
		return TypeDebit, nil
	default:
		return "", fmt.Errorf("invalid transaction type: %s", value)
	}
}

// dateLayout is the wire format for calendar dates
const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day semantics
type Date struct {
	year  int
	month time.Month
	day   int
}

// ParseDate parses a date in YYYY-MM-DD form
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// DateOf truncates a time.Time to its calendar date
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{year: year, month: month, day: day}
}

// Today returns the current calendar date
func Today() Date {
	return DateOf(time.Now())
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns the date as a time.Time at midnight UTC
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// After reports whether d is after other
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// Before reports whether d is before other
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// String renders the date in YYYY-MM-DD form
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Transaction represents a single ledger record. It is immutable once
// created: the store hands out copies, never live references.
//
// Amount is a sign-less magnitude; direction is carried by Type.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
}

// Validate validates transaction data and normalizes the type casing
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction id cannot be empty")
	}

	if t.Amount.IsNegative() {
		return fmt.Errorf("amount cannot be negative: %s", t.Amount)
	}

	if t.Date.IsZero() {
		return fmt.Errorf("date is required")
	}

	normalized, err := TypeFromString(string(t.Type))
	if err != nil {
		return err
	}
	t.Type = normalized

	return nil
}

// Query is the view query state: free-text search plus an optional type
// filter. The zero value matches everything.
type Query struct {
	Search string
	Type   *TransactionType
}
