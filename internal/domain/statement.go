package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotals sums entry amounts by direction.
type PeriodTotals struct {
	Credits decimal.Decimal
	Debits  decimal.Decimal
	Count   int64
}

// Net returns credits minus debits.
func (t PeriodTotals) Net() decimal.Decimal {
	return t.Credits.Sub(t.Debits)
}

// TotalsOf sums the given entries.
func TotalsOf(entries []*Entry) PeriodTotals {
	totals := PeriodTotals{Credits: decimal.Zero, Debits: decimal.Zero}
	for _, e := range entries {
		if e.Direction == DirectionCredit {
			totals.Credits = totals.Credits.Add(e.Amount)
		} else {
			totals.Debits = totals.Debits.Add(e.Amount)
		}
		totals.Count++
	}
	return totals
}

// Statement is a read-only projection of one account over a date window.
type Statement struct {
	From         time.Time
	To           time.Time
	AccountID    string
	AccountName  string
	Opening      decimal.Decimal
	Closing      decimal.Decimal
	TotalCredits decimal.Decimal
	TotalDebits  decimal.Decimal
	Entries      []*Entry
	Count        int
}

// NewStatement derives closing balance and period totals. Entries must be
// the window's entries in canonical order; opening is the running balance
// of the last entry dated before the window, or zero.
func NewStatement(account *Account, from, to time.Time, opening decimal.Decimal, entries []*Entry) *Statement {
	if entries == nil {
		entries = []*Entry{}
	}

	closing := opening
	if len(entries) > 0 {
		closing = entries[len(entries)-1].RunningBalance
	}

	totals := TotalsOf(entries)

	return &Statement{
		From:         DateOf(from),
		To:           DateOf(to),
		AccountID:    account.ID,
		AccountName:  account.Name,
		Opening:      opening,
		Closing:      closing,
		TotalCredits: totals.Credits,
		TotalDebits:  totals.Debits,
		Entries:      entries,
		Count:        len(entries),
	}
}

// MonthlyTotals is one bucket of an owner's activity trend.
type MonthlyTotals struct {
	Year    int
	Month   time.Month
	Credits decimal.Decimal
	Debits  decimal.Decimal
}
