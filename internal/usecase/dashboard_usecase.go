package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
)

// DashboardUseCase summarizes all accounts of one owner.
type DashboardUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
}

// NewDashboardUseCase creates a new DashboardUseCase.
func NewDashboardUseCase(txManager TransactionManager, accountRepo AccountRepository, entryRepo EntryRepository) *DashboardUseCase {
	return &DashboardUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// Dashboard is an owner's summary across all owned accounts.
type Dashboard struct {
	Balance       decimal.Decimal
	TotalCredits  decimal.Decimal
	TotalDebits   decimal.Decimal
	EntryCount    int64
	AccountCount  int
	RecentEntries []*domain.Entry
	Trend         []domain.MonthlyTotals
}

// Summary builds the owner's dashboard. The trend covers the
// DashboardTrendMonths calendar months ending with asOf's month, oldest first.
func (uc *DashboardUseCase) Summary(ctx context.Context, ownerID string, asOf time.Time) (*Dashboard, error) {
	if ownerID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	dash := &Dashboard{}

	err := runReadOnly(ctx, uc.txManager, func(tx Transaction) error {
		totals, err := uc.entryRepo.OwnerTotals(ctx, tx, ownerID, nil, nil)
		if err != nil {
			return err
		}
		dash.TotalCredits = totals.Credits
		dash.TotalDebits = totals.Debits
		dash.Balance = totals.Net()
		dash.EntryCount = totals.Count

		accounts, err := uc.accountRepo.ListByOwner(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		dash.AccountCount = len(accounts)

		dash.RecentEntries, err = uc.entryRepo.ListByOwner(ctx, tx, ownerID, DashboardRecentEntries, 0)
		if err != nil {
			return err
		}

		dash.Trend, err = uc.trend(ctx, tx, ownerID, asOf)
		return err
	})
	if err != nil {
		return nil, err
	}

	return dash, nil
}

func (uc *DashboardUseCase) trend(ctx context.Context, tx Transaction, ownerID string, asOf time.Time) ([]domain.MonthlyTotals, error) {
	asOf = domain.DateOf(asOf)
	first := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(DashboardTrendMonths - 1), 0)

	trend := make([]domain.MonthlyTotals, 0, DashboardTrendMonths)
	for i := 0; i < DashboardTrendMonths; i++ {
		start := first.AddDate(0, i, 0)
		from, to, err := domain.MonthWindow(start.Year(), start.Month())
		if err != nil {
			return nil, err
		}

		totals, err := uc.entryRepo.OwnerTotals(ctx, tx, ownerID, &from, &to)
		if err != nil {
			return nil, err
		}

		trend = append(trend, domain.MonthlyTotals{
			Year:    start.Year(),
			Month:   start.Month(),
			Credits: totals.Credits,
			Debits:  totals.Debits,
		})
	}

	return trend, nil
}
