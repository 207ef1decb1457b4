package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SortCanonical orders entries ascending by (business date, sequence).
func SortCanonical(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Position().Before(entries[j].Position())
	})
}

// IsCanonical reports whether entries are in non-decreasing canonical order.
func IsCanonical(entries []*Entry) bool {
	for i := 1; i < len(entries); i++ {
		if entries[i].Position().Before(entries[i-1].Position()) {
			return false
		}
	}
	return true
}

// ChainBreak is an entry whose stored running balance differs from the one
// obtained by walking the account in canonical order.
type ChainBreak struct {
	EntryID  string
	Position Position
	Stored   decimal.Decimal
	Expected decimal.Decimal
}

// VerifyChain walks entries (canonical order) from base and reports every
// entry whose running balance does not match.
func VerifyChain(base decimal.Decimal, entries []*Entry) []ChainBreak {
	var breaks []ChainBreak

	balance := base
	for _, e := range entries {
		balance = e.Direction.Apply(balance, e.Amount)
		if !balance.Equal(e.RunningBalance) {
			breaks = append(breaks, ChainBreak{
				EntryID:  e.ID,
				Position: e.Position(),
				Stored:   e.RunningBalance,
				Expected: balance,
			})
		}
	}

	return breaks
}

// Rescan computes account aggregates from the complete entry set in
// canonical order. Balance is the stored running balance of the most
// recent entry, matching what the aggregate cache persists.
func Rescan(entries []*Entry) Aggregates {
	totals := TotalsOf(entries)

	agg := Aggregates{
		Balance:      decimal.Zero,
		TotalCredits: totals.Credits,
		TotalDebits:  totals.Debits,
		EntryCount:   totals.Count,
	}
	if len(entries) > 0 {
		agg.Balance = entries[len(entries)-1].RunningBalance
	}

	return agg
}
