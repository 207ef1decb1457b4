package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/infrastructure/postgres/generated"
	"github.com/iho/trustbook/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct{}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository() *EntryRepository {
	return &EntryRepository{}
}

// Create inserts the entry and fills in its sequence.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	seq, err := q.CreateEntry(ctx, generated.CreateEntryParams{
		ID:             entry.ID,
		AccountID:      entry.AccountID,
		OwnerID:        entry.OwnerID,
		BusinessDate:   dateToPgDate(entry.BusinessDate),
		Direction:      string(entry.Direction),
		Amount:         decimalToNumeric(entry.Amount),
		Narration:      entry.Narration,
		RunningBalance: decimalToNumeric(entry.RunningBalance),
		CreatedAt:      timeToPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		return mapConstraintError(err)
	}

	entry.Sequence = seq
	entry.BusinessDate = domain.DateOf(entry.BusinessDate)

	return nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := q.GetEntryByID(ctx, id)
	if err != nil {
		return nil, entryLookupError(err)
	}

	return rowToEntry(row), nil
}

// Delete removes an entry and returns the stored row.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := q.DeleteEntry(ctx, id)
	if err != nil {
		return nil, entryLookupError(err)
	}

	return rowToEntry(row), nil
}

// UpdateRunningBalance overwrites one entry's running balance.
func (r *EntryRepository) UpdateRunningBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := q.UpdateEntryRunningBalance(ctx, generated.UpdateEntryRunningBalanceParams{
		ID:             id,
		RunningBalance: decimalToNumeric(balance),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// RangeByCanonicalOrder returns entries ascending by (business date, seq).
func (r *EntryRepository) RangeByCanonicalOrder(ctx context.Context, tx usecase.Transaction, accountID string, from, to *time.Time) ([]*domain.Entry, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.ListEntriesCanonical(ctx, generated.ListEntriesCanonicalParams{
		AccountID: accountID,
		FromDate:  optionalDate(from),
		ToDate:    optionalDate(to),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// CountFrom counts entries dated on or after from.
func (r *EntryRepository) CountFrom(ctx context.Context, tx usecase.Transaction, accountID string, from *time.Time) (int64, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return 0, err
	}

	return q.CountEntriesFrom(ctx, generated.CountEntriesFromParams{
		AccountID: accountID,
		FromDate:  optionalDate(from),
	})
}

// MostRecent returns the last entry in canonical order, or domain.ErrEntryNotFound.
func (r *EntryRepository) MostRecent(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Entry, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := q.GetMostRecentEntry(ctx, accountID)
	if err != nil {
		return nil, entryLookupError(err)
	}

	return rowToEntry(row), nil
}

// LatestBefore returns the last entry dated strictly before date, or domain.ErrEntryNotFound.
func (r *EntryRepository) LatestBefore(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) (*domain.Entry, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := q.GetLatestEntryBefore(ctx, generated.GetLatestEntryBeforeParams{
		AccountID:    accountID,
		BusinessDate: dateToPgDate(date),
	})
	if err != nil {
		return nil, entryLookupError(err)
	}

	return rowToEntry(row), nil
}

// Totals sums the account's entries by direction.
func (r *EntryRepository) Totals(ctx context.Context, tx usecase.Transaction, accountID string) (domain.PeriodTotals, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return domain.PeriodTotals{}, err
	}

	row, err := q.SumEntriesByAccount(ctx, accountID)
	if err != nil {
		return domain.PeriodTotals{}, err
	}

	return domain.PeriodTotals{
		Credits: numericToDecimal(row.Credits),
		Debits:  numericToDecimal(row.Debits),
		Count:   row.EntryCount,
	}, nil
}

// ListByAccount returns a page of the account's entries, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string, limit, offset int) ([]*domain.Entry, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.ListEntriesByAccount(ctx, generated.ListEntriesByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// ListByOwner returns a page of entries across all of the owner's accounts.
func (r *EntryRepository) ListByOwner(ctx context.Context, tx usecase.Transaction, ownerID string, limit, offset int) ([]*domain.Entry, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.ListEntriesByOwner(ctx, generated.ListEntriesByOwnerParams{
		OwnerID: ownerID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// OwnerTotals sums the owner's entries within optional inclusive dates.
func (r *EntryRepository) OwnerTotals(ctx context.Context, tx usecase.Transaction, ownerID string, from, to *time.Time) (domain.PeriodTotals, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return domain.PeriodTotals{}, err
	}

	row, err := q.SumEntriesByOwner(ctx, generated.SumEntriesByOwnerParams{
		OwnerID:  ownerID,
		FromDate: optionalDate(from),
		ToDate:   optionalDate(to),
	})
	if err != nil {
		return domain.PeriodTotals{}, err
	}

	return domain.PeriodTotals{
		Credits: numericToDecimal(row.Credits),
		Debits:  numericToDecimal(row.Debits),
		Count:   row.EntryCount,
	}, nil
}

func entryLookupError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEntryNotFound
	}
	return err
}

func rowsToEntries(rows []generated.Entry) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}
	return entries
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		ID:             row.ID,
		Sequence:       row.Seq,
		AccountID:      row.AccountID,
		OwnerID:        row.OwnerID,
		BusinessDate:   pgDateToTime(row.BusinessDate),
		Direction:      domain.Direction(row.Direction),
		Amount:         numericToDecimal(row.Amount),
		Narration:      row.Narration,
		RunningBalance: numericToDecimal(row.RunningBalance),
		CreatedAt:      row.CreatedAt.Time,
	}
}
