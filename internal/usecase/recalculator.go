package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
)

// Recalculator keeps running balances consistent with canonical order and
// refreshes the per-account aggregate cache. Every method must be called
// inside a transaction that holds the account lock.
type Recalculator struct {
	entryRepo   EntryRepository
	accountRepo AccountRepository
	maxEntries  int
}

// NewRecalculator creates a new Recalculator. maxEntries <= 0 disables the
// rewrite bound.
func NewRecalculator(entryRepo EntryRepository, accountRepo AccountRepository, maxEntries int) *Recalculator {
	return &Recalculator{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		maxEntries:  maxEntries,
	}
}

// AppendBalance returns the running balance of a new entry computed from the
// account's most recent entry by canonical order, regardless of the new
// entry's business date.
func (r *Recalculator) AppendBalance(ctx context.Context, tx Transaction, accountID string, direction domain.Direction, amount decimal.Decimal) (decimal.Decimal, error) {
	base := decimal.Zero

	last, err := r.entryRepo.MostRecent(ctx, tx, accountID)
	switch {
	case err == nil:
		base = last.RunningBalance
	case !errors.Is(err, domain.ErrEntryNotFound):
		return decimal.Zero, err
	}

	return direction.Apply(base, amount), nil
}

// RecalculateFrom rewrites the running balance of every entry dated on or
// after from, starting at the last entry dated before it. It returns the
// number of entries walked.
func (r *Recalculator) RecalculateFrom(ctx context.Context, tx Transaction, accountID string, from time.Time) (int, error) {
	from = domain.DateOf(from)
	return r.recalculate(ctx, tx, accountID, &from)
}

// RecalculateAll rewrites every running balance of the account from zero.
func (r *Recalculator) RecalculateAll(ctx context.Context, tx Transaction, accountID string) (int, error) {
	return r.recalculate(ctx, tx, accountID, nil)
}

func (r *Recalculator) recalculate(ctx context.Context, tx Transaction, accountID string, from *time.Time) (int, error) {
	if r.maxEntries > 0 {
		affected, err := r.entryRepo.CountFrom(ctx, tx, accountID, from)
		if err != nil {
			return 0, err
		}
		if affected > int64(r.maxEntries) {
			return 0, fmt.Errorf("%w: %d entries affected, limit is %d", domain.ErrRecalculationTooLarge, affected, r.maxEntries)
		}
	}

	balance := decimal.Zero
	if from != nil {
		previous, err := r.entryRepo.LatestBefore(ctx, tx, accountID, *from)
		switch {
		case err == nil:
			balance = previous.RunningBalance
		case !errors.Is(err, domain.ErrEntryNotFound):
			return 0, err
		}
	}

	affected, err := r.entryRepo.RangeByCanonicalOrder(ctx, tx, accountID, from, nil)
	if err != nil {
		return 0, err
	}

	for _, entry := range affected {
		balance = entry.Direction.Apply(balance, entry.Amount)
		if balance.Equal(entry.RunningBalance) {
			continue
		}
		if err := r.entryRepo.UpdateRunningBalance(ctx, tx, entry.ID, balance); err != nil {
			return 0, fmt.Errorf("update running balance of %s: %w", entry.ID, err)
		}
	}

	return len(affected), nil
}

// RefreshAggregates recomputes the account's cached totals from the full
// entry log and persists them.
func (r *Recalculator) RefreshAggregates(ctx context.Context, tx Transaction, accountID string, now time.Time) (domain.Aggregates, error) {
	totals, err := r.entryRepo.Totals(ctx, tx, accountID)
	if err != nil {
		return domain.Aggregates{}, err
	}

	agg := domain.Aggregates{
		Balance:      decimal.Zero,
		TotalCredits: totals.Credits,
		TotalDebits:  totals.Debits,
		EntryCount:   totals.Count,
	}

	last, err := r.entryRepo.MostRecent(ctx, tx, accountID)
	switch {
	case err == nil:
		agg.Balance = last.RunningBalance
	case !errors.Is(err, domain.ErrEntryNotFound):
		return domain.Aggregates{}, err
	}

	if err := r.accountRepo.UpdateAggregates(ctx, tx, accountID, agg, now); err != nil {
		return domain.Aggregates{}, err
	}

	return agg, nil
}
