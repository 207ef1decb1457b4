package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

func TestDashboardUseCase_Summary(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	second, err := e.accountUC.CreateAccount(ctx, usecase.CreateAccountInput{OwnerID: ownerID, Name: "Bob"})
	require.NoError(t, err)

	e.add(t, "2023-11-20", domain.DirectionCredit, "1000")
	e.add(t, "2024-01-05", domain.DirectionCredit, "100")
	e.add(t, "2024-03-10", domain.DirectionDebit, "40")
	for i := 0; i < 4; i++ {
		_, err := e.ledger.AddEntry(ctx, usecase.AddEntryInput{
			BusinessDate: day("2024-06-01"),
			AccountID:    second.ID,
			OwnerID:      ownerID,
			Narration:    "bob",
			Direction:    domain.DirectionDebit,
			Amount:       dec("5"),
		})
		require.NoError(t, err)
	}

	dash, err := usecase.NewDashboardUseCase(e.txm, e.accounts, e.entries).Summary(ctx, ownerID, day("2024-06-15"))
	require.NoError(t, err)

	requireDecimal(t, "1040", dash.Balance)
	requireDecimal(t, "1100", dash.TotalCredits)
	requireDecimal(t, "60", dash.TotalDebits)
	assert.EqualValues(t, 7, dash.EntryCount)
	assert.Equal(t, 2, dash.AccountCount)

	require.Len(t, dash.RecentEntries, usecase.DashboardRecentEntries)
	assert.Equal(t, day("2024-06-01"), dash.RecentEntries[0].BusinessDate)
	assert.Equal(t, day("2024-03-10"), dash.RecentEntries[4].BusinessDate)

	require.Len(t, dash.Trend, usecase.DashboardTrendMonths)
	assert.Equal(t, time.January, dash.Trend[0].Month)
	assert.Equal(t, time.June, dash.Trend[5].Month)
	requireDecimal(t, "100", dash.Trend[0].Credits)
	requireDecimal(t, "40", dash.Trend[2].Debits)
	requireDecimal(t, "20", dash.Trend[5].Debits)
}

func TestDashboardUseCase_TrendCrossesYearBoundary(t *testing.T) {
	e := newEngine(t)

	dash, err := usecase.NewDashboardUseCase(e.txm, e.accounts, e.entries).Summary(context.Background(), ownerID, day("2024-02-29"))
	require.NoError(t, err)

	require.Len(t, dash.Trend, usecase.DashboardTrendMonths)
	assert.Equal(t, 2023, dash.Trend[0].Year)
	assert.Equal(t, time.September, dash.Trend[0].Month)
	assert.Equal(t, time.February, dash.Trend[5].Month)
	assert.True(t, dash.Balance.IsZero())
	assert.Empty(t, dash.RecentEntries)
}

func TestDashboardUseCase_RequiresOwner(t *testing.T) {
	_, err := usecase.NewDashboardUseCase(nil, nil, nil).Summary(context.Background(), "", time.Now())
	if !errors.Is(err, domain.ErrMissingIdentifier) {
		t.Fatalf("expected ErrMissingIdentifier, got %v", err)
	}
}
