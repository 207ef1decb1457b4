package usecase_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

// mutate applies steps random adds and deletes. When ascending is true each
// add is dated on or after the previous one, so no entry is ever backdated.
func mutate(t *testing.T, e *engine, seed int64, steps int, ascending bool, check func(step int)) {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	date := day("2024-01-01")
	var live []string

	for step := 0; step < steps; step++ {
		if len(live) > 0 && rng.Intn(4) == 0 {
			i := rng.Intn(len(live))
			e.remove(t, live[i])
			live = append(live[:i], live[i+1:]...)
		} else {
			if ascending {
				date = date.AddDate(0, 0, rng.Intn(3))
			} else {
				date = day("2024-01-01").AddDate(0, 0, rng.Intn(90))
			}

			dir := domain.DirectionCredit
			if rng.Intn(2) == 0 {
				dir = domain.DirectionDebit
			}
			amount := decimal.New(int64(1+rng.Intn(100000)), -2)

			entry := e.add(t, date.Format(time.DateOnly), dir, amount.String())
			live = append(live, entry.ID)
		}

		check(step)
	}
}

func TestProperty_CanonicalOrdering(t *testing.T) {
	e := newEngine(t)

	mutate(t, e, 1, 120, false, func(step int) {
		_, entries := e.snapshot(t)
		for i := 1; i < len(entries); i++ {
			require.Truef(t, entries[i-1].Position().Before(entries[i].Position()),
				"step %d: %v not before %v", step, entries[i-1].Position(), entries[i].Position())
		}
	})
}

func TestProperty_DeleteRecomputesSuffix_StrictOrdering(t *testing.T) {
	e := newEngine(t, strictOrdering)

	mutate(t, e, 2, 150, false, func(step int) {
		_, entries := e.snapshot(t)
		require.Emptyf(t, domain.VerifyChain(decimal.Zero, entries), "step %d", step)
	})
}

func TestProperty_DeleteRecomputesSuffix_AppendTimeWithoutBackdating(t *testing.T) {
	e := newEngine(t)

	mutate(t, e, 3, 150, true, func(step int) {
		_, entries := e.snapshot(t)
		require.Emptyf(t, domain.VerifyChain(decimal.Zero, entries), "step %d", step)
	})
}

func TestProperty_DeleteRecomputesOnlyEntriesOnOrAfterDeletedDate(t *testing.T) {
	e := newEngine(t)

	e.add(t, "2024-01-10", domain.DirectionCredit, "50")
	backdated := e.add(t, "2024-01-01", domain.DirectionCredit, "10")
	target := e.add(t, "2024-01-20", domain.DirectionDebit, "5")
	after := e.add(t, "2024-01-25", domain.DirectionCredit, "1")

	e.remove(t, target.ID)

	// The backdated entry precedes the deleted date, so it keeps its
	// append-time balance; everything from the deleted date on is rebuilt
	// from the last entry dated before it.
	requireDecimal(t, "60", e.entry(t, backdated.ID).RunningBalance)
	requireDecimal(t, "51", e.entry(t, after.ID).RunningBalance)
}

func TestProperty_AggregatesEqualFullRescan(t *testing.T) {
	for name, opts := range map[string][]engineOption{
		"append time": nil,
		"strict":      {strictOrdering},
	} {
		t.Run(name, func(t *testing.T) {
			e := newEngine(t, opts...)

			mutate(t, e, 4, 150, false, func(step int) {
				account, entries := e.snapshot(t)
				require.Truef(t, account.Aggregates().Equal(domain.Rescan(entries)),
					"step %d: cached %+v, rescan %+v", step, account.Aggregates(), domain.Rescan(entries))
			})
		})
	}
}

func TestProperty_StatementClosure_AppendTimeWithoutBackdating(t *testing.T) {
	e := newEngine(t)

	mutate(t, e, 5, 200, true, func(int) {})

	for month := time.January; month <= time.December; month++ {
		stmt := e.statement(t, 2024, month)
		want := stmt.Opening.Add(stmt.TotalCredits).Sub(stmt.TotalDebits)
		require.Truef(t, want.Equal(stmt.Closing), "%s: opening %s + credits %s - debits %s != closing %s",
			month, stmt.Opening, stmt.TotalCredits, stmt.TotalDebits, stmt.Closing)
	}
}

func TestProperty_StatementClosure_BackdatedAppendTimeEntriesBreakClosure(t *testing.T) {
	e := newEngine(t)

	e.add(t, "2024-01-05", domain.DirectionCredit, "100")
	e.add(t, "2024-01-10", domain.DirectionDebit, "40")
	e.add(t, "2024-01-01", domain.DirectionCredit, "10")

	stmt := e.statement(t, 2024, time.January)
	requireDecimal(t, "0", stmt.Opening)
	requireDecimal(t, "60", stmt.Closing)
	requireDecimal(t, "110", stmt.TotalCredits)
	requireDecimal(t, "40", stmt.TotalDebits)

	net := stmt.Opening.Add(stmt.TotalCredits).Sub(stmt.TotalDebits)
	assert.False(t, net.Equal(stmt.Closing))
}

func TestProperty_StatementClosure_StrictOrderingHoldsWithBackdating(t *testing.T) {
	e := newEngine(t, strictOrdering)

	mutate(t, e, 6, 200, false, func(int) {})

	for month := time.January; month <= time.April; month++ {
		stmt := e.statement(t, 2024, month)
		want := stmt.Opening.Add(stmt.TotalCredits).Sub(stmt.TotalDebits)
		require.Truef(t, want.Equal(stmt.Closing), "%s", month)
	}
}

func TestProperty_StatementReadIsIdempotent(t *testing.T) {
	e := newEngine(t)
	mutate(t, e, 7, 60, false, func(int) {})

	input := usecase.GetStatementInput{AccountID: e.accountID, CallerID: partyID, Year: 2024, Month: time.February}

	first, err := e.statements.GetStatement(context.Background(), input)
	require.NoError(t, err)
	second, err := e.statements.GetStatement(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, domain.RoleParty, first.Role)
}

func TestStatement_EmptyWindowCarriesOpening(t *testing.T) {
	e := newEngine(t)

	e.add(t, "2024-01-05", domain.DirectionCredit, "100")
	e.add(t, "2024-03-05", domain.DirectionDebit, "30")

	stmt := e.statement(t, 2024, time.February)
	requireDecimal(t, "100", stmt.Opening)
	requireDecimal(t, "100", stmt.Closing)
	assert.Equal(t, 0, stmt.Count)
	assert.NotNil(t, stmt.Entries)

	_, err := e.statements.GetStatement(context.Background(), usecase.GetStatementInput{
		AccountID: e.accountID, CallerID: ownerID, Year: 2024, Month: 13,
	})
	require.ErrorIs(t, err, domain.ErrInvalidPeriod)
}
