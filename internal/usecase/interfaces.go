package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// GetByIDForUpdate locks the account for the rest of tx. All mutations of
	// an account and its entries are serialized through this lock.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, tx Transaction, account *domain.Account) error
	UpdateAggregates(ctx context.Context, tx Transaction, id string, agg domain.Aggregates, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByOwner(ctx context.Context, tx Transaction, ownerID string) ([]*domain.Account, error)
	ListByLinkedUser(ctx context.Context, tx Transaction, userID string) ([]*domain.Account, error)
}

// EntryRepository is the entry log: an append/delete store of entries per
// account, queryable in canonical (business date, sequence) order.
type EntryRepository interface {
	// Create assigns entry.Sequence and persists the entry. It does not
	// compute balances and rejects non-positive amounts.
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	// Delete removes the entry and returns it as it was stored.
	Delete(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	UpdateRunningBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal) error

	// RangeByCanonicalOrder returns entries ascending by (business date,
	// sequence), optionally bounded by inclusive business dates.
	RangeByCanonicalOrder(ctx context.Context, tx Transaction, accountID string, from, to *time.Time) ([]*domain.Entry, error)
	// CountFrom counts entries dated on or after from.
	CountFrom(ctx context.Context, tx Transaction, accountID string, from *time.Time) (int64, error)
	// MostRecent returns the entry with the greatest canonical position.
	// An account without entries yields domain.ErrEntryNotFound.
	MostRecent(ctx context.Context, tx Transaction, accountID string) (*domain.Entry, error)
	// LatestBefore returns the last entry dated strictly before date.
	// domain.ErrEntryNotFound when no such entry exists.
	LatestBefore(ctx context.Context, tx Transaction, accountID string, date time.Time) (*domain.Entry, error)
	// Totals sums every entry of the account by direction.
	Totals(ctx context.Context, tx Transaction, accountID string) (domain.PeriodTotals, error)

	// ListByAccount returns entries newest first.
	ListByAccount(ctx context.Context, tx Transaction, accountID string, limit, offset int) ([]*domain.Entry, error)
	ListByOwner(ctx context.Context, tx Transaction, ownerID string, limit, offset int) ([]*domain.Entry, error)
	// OwnerTotals sums all entries of an owner, optionally within inclusive business dates.
	OwnerTotals(ctx context.Context, tx Transaction, ownerID string, from, to *time.Time) (domain.PeriodTotals, error)
}

// Transaction represents a storage transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
	// BeginReadOnly starts a snapshot transaction that never observes
	// another transaction's uncommitted writes.
	BeginReadOnly(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// StatementCache stores derived statements. Keys embed the account
// version, so entries never need explicit invalidation.
type StatementCache interface {
	Get(ctx context.Context, key string) (*domain.Statement, bool, error)
	Set(ctx context.Context, key string, statement *domain.Statement, ttl time.Duration) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete, so it can be retried.
	Release(ctx context.Context, key string) error
}

// MetricsRecorder receives ledger events worth counting.
type MetricsRecorder interface {
	EntryAdded(direction domain.Direction)
	EntryDeleted()
	EntriesRecalculated(count int)
	RecalculationRejected()
	StatementServed(cached bool)
}
