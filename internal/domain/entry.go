package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of an entry.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// ParseDirection accepts CREDIT/DEBIT as well as the short CR/DR forms.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CREDIT", "CR":
		return DirectionCredit, nil
	case "DEBIT", "DR":
		return DirectionDebit, nil
	default:
		return "", ErrInvalidDirection
	}
}

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// Apply returns balance moved by amount in this direction.
func (d Direction) Apply(balance, amount decimal.Decimal) decimal.Decimal {
	if d == DirectionDebit {
		return balance.Sub(amount)
	}
	return balance.Add(amount)
}

// Entry is a single signed line posted against an account.
type Entry struct {
	CreatedAt      time.Time
	BusinessDate   time.Time
	ID             string
	AccountID      string
	OwnerID        string
	Narration      string
	Direction      Direction
	Amount         decimal.Decimal
	RunningBalance decimal.Decimal
	Sequence       int64
}

// Position returns the entry's place in its account's canonical order.
func (e *Entry) Position() Position {
	return Position{BusinessDate: e.BusinessDate, Sequence: e.Sequence}
}

// Validate checks the fields the entry log refuses to store.
func (e *Entry) Validate() error {
	if e.AccountID == "" || e.OwnerID == "" {
		return ErrMissingIdentifier
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !e.Direction.IsValid() {
		return ErrInvalidDirection
	}
	return ValidateNarration(e.Narration)
}

// Position is the composite canonical ordering key of an entry:
// business date first, insertion sequence as tie-breaker.
type Position struct {
	BusinessDate time.Time
	Sequence     int64
}

// Compare returns -1, 0 or 1 as p sorts before, equal to or after o.
func (p Position) Compare(o Position) int {
	switch {
	case p.BusinessDate.Before(o.BusinessDate):
		return -1
	case p.BusinessDate.After(o.BusinessDate):
		return 1
	case p.Sequence < o.Sequence:
		return -1
	case p.Sequence > o.Sequence:
		return 1
	default:
		return 0
	}
}

// Before reports whether p sorts strictly before o.
func (p Position) Before(o Position) bool {
	return p.Compare(o) < 0
}

// StartOf is the position that sorts before every entry dated on or after date.
func StartOf(date time.Time) Position {
	return Position{BusinessDate: DateOf(date), Sequence: 0}
}

// DateOf truncates t to its calendar date, expressed as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthWindow returns the first and last calendar day of a month.
func MonthWindow(year int, month time.Month) (time.Time, time.Time, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	return from, to, nil
}
