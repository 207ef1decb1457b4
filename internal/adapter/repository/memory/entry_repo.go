package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create assigns the next insertion sequence and stores the entry.
func (r *EntryRepository) Create(_ context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := entry.Validate(); err != nil {
		return err
	}
	if _, ok := r.store.accounts[entry.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}

	r.store.seq++
	entry.Sequence = r.store.seq
	entry.BusinessDate = domain.DateOf(entry.BusinessDate)

	stored := cloneEntry(entry)
	r.store.insertEntry(stored)
	t.onRollback(func() { r.store.removeEntry(stored) })

	return nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(_ context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	entry, ok := r.store.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}

	return cloneEntry(entry), nil
}

// Delete removes an entry and returns it.
func (r *EntryRepository) Delete(_ context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	t, err := r.store.writer(tx)
	if err != nil {
		return nil, err
	}

	entry, ok := r.store.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}

	r.store.removeEntry(entry)
	t.onRollback(func() { r.store.insertEntry(entry) })

	return cloneEntry(entry), nil
}

// UpdateRunningBalance overwrites the stored running balance of an entry.
func (r *EntryRepository) UpdateRunningBalance(_ context.Context, tx usecase.Transaction, id string, balance decimal.Decimal) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	entry, ok := r.store.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}

	previous := entry.RunningBalance
	entry.RunningBalance = balance
	t.onRollback(func() { entry.RunningBalance = previous })

	return nil
}

// RangeByCanonicalOrder returns entries within the inclusive date bounds.
func (r *EntryRepository) RangeByCanonicalOrder(_ context.Context, tx usecase.Transaction, accountID string, from, to *time.Time) ([]*domain.Entry, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	result := make([]*domain.Entry, 0)
	for _, e := range r.store.byAccount[accountID] {
		if inWindow(e.BusinessDate, from, to) {
			result = append(result, cloneEntry(e))
		}
	}

	return result, nil
}

// CountFrom counts entries dated on or after from.
func (r *EntryRepository) CountFrom(_ context.Context, tx usecase.Transaction, accountID string, from *time.Time) (int64, error) {
	if _, err := r.store.reader(tx); err != nil {
		return 0, err
	}

	var count int64
	for _, e := range r.store.byAccount[accountID] {
		if inWindow(e.BusinessDate, from, nil) {
			count++
		}
	}

	return count, nil
}

// MostRecent returns the last entry in canonical order.
func (r *EntryRepository) MostRecent(_ context.Context, tx usecase.Transaction, accountID string) (*domain.Entry, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	list := r.store.byAccount[accountID]
	if len(list) == 0 {
		return nil, domain.ErrEntryNotFound
	}

	return cloneEntry(list[len(list)-1]), nil
}

// LatestBefore returns the last entry dated strictly before date.
func (r *EntryRepository) LatestBefore(_ context.Context, tx usecase.Transaction, accountID string, date time.Time) (*domain.Entry, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	start := domain.StartOf(date)
	list := r.store.byAccount[accountID]

	i := sort.Search(len(list), func(i int) bool {
		return !list[i].Position().Before(start)
	})
	if i == 0 {
		return nil, domain.ErrEntryNotFound
	}

	return cloneEntry(list[i-1]), nil
}

// Totals sums every entry of the account.
func (r *EntryRepository) Totals(_ context.Context, tx usecase.Transaction, accountID string) (domain.PeriodTotals, error) {
	if _, err := r.store.reader(tx); err != nil {
		return domain.PeriodTotals{}, err
	}

	return domain.TotalsOf(r.store.byAccount[accountID]), nil
}

// ListByAccount returns a page of the account's entries, newest first.
func (r *EntryRepository) ListByAccount(_ context.Context, tx usecase.Transaction, accountID string, limit, offset int) ([]*domain.Entry, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	list := r.store.byAccount[accountID]
	newest := make([]*domain.Entry, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		newest = append(newest, list[i])
	}

	return page(newest, limit, offset), nil
}

// ListByOwner returns a page of all entries of an owner, newest first.
func (r *EntryRepository) ListByOwner(_ context.Context, tx usecase.Transaction, ownerID string, limit, offset int) ([]*domain.Entry, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	owned := r.ownedBy(ownerID, nil, nil)
	sort.Slice(owned, func(i, j int) bool {
		return owned[j].Position().Before(owned[i].Position())
	})

	return page(owned, limit, offset), nil
}

// OwnerTotals sums an owner's entries within the inclusive date bounds.
func (r *EntryRepository) OwnerTotals(_ context.Context, tx usecase.Transaction, ownerID string, from, to *time.Time) (domain.PeriodTotals, error) {
	if _, err := r.store.reader(tx); err != nil {
		return domain.PeriodTotals{}, err
	}

	return domain.TotalsOf(r.ownedBy(ownerID, from, to)), nil
}

func (r *EntryRepository) ownedBy(ownerID string, from, to *time.Time) []*domain.Entry {
	owned := make([]*domain.Entry, 0)
	for _, e := range r.store.entries {
		if e.OwnerID == ownerID && inWindow(e.BusinessDate, from, to) {
			owned = append(owned, e)
		}
	}
	return owned
}

func inWindow(date time.Time, from, to *time.Time) bool {
	if from != nil && date.Before(domain.DateOf(*from)) {
		return false
	}
	if to != nil && date.After(domain.DateOf(*to)) {
		return false
	}
	return true
}

func page(entries []*domain.Entry, limit, offset int) []*domain.Entry {
	result := make([]*domain.Entry, 0)
	if offset < 0 || offset >= len(entries) {
		return result
	}

	end := len(entries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	for _, e := range entries[offset:end] {
		result = append(result, cloneEntry(e))
	}

	return result
}
