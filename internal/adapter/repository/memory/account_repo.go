package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stores a new account. Party names are unique per owner.
func (r *AccountRepository) Create(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if _, exists := r.store.accounts[account.ID]; exists {
		return domain.ErrDuplicateAccount
	}
	if r.nameTaken(account.OwnerID, account.Name, account.ID) {
		return domain.ErrDuplicateAccount
	}

	r.store.accounts[account.ID] = cloneAccount(account)
	t.onRollback(func() { delete(r.store.accounts, account.ID) })

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(_ context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	account, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return cloneAccount(account), nil
}

// GetByIDForUpdate retrieves an account inside a write transaction. The
// transaction already holds the store lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if _, err := r.store.writer(tx); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, tx, id)
}

// UpdateProfile updates the party identity of an account.
func (r *AccountRepository) UpdateProfile(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	current, ok := r.store.accounts[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if r.nameTaken(current.OwnerID, account.Name, account.ID) {
		return domain.ErrDuplicateAccount
	}

	previous := cloneAccount(current)
	t.onRollback(func() { r.store.accounts[previous.ID] = previous })

	updated := cloneAccount(current)
	updated.Name = account.Name
	updated.Phone = account.Phone
	updated.Email = account.Email
	updated.Description = account.Description
	updated.LinkedUserID = cloneAccount(account).LinkedUserID
	updated.UpdatedAt = account.UpdatedAt
	updated.Version++
	r.store.accounts[account.ID] = updated

	return nil
}

// UpdateAggregates overwrites the cached summary of an account.
func (r *AccountRepository) UpdateAggregates(_ context.Context, tx usecase.Transaction, id string, agg domain.Aggregates, updatedAt time.Time) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	current, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}

	previous := cloneAccount(current)
	t.onRollback(func() { r.store.accounts[previous.ID] = previous })

	updated := cloneAccount(current)
	updated.ApplyAggregates(agg)
	updated.UpdatedAt = updatedAt
	updated.Version++
	r.store.accounts[id] = updated

	return nil
}

// Delete removes an account without entries.
func (r *AccountRepository) Delete(_ context.Context, tx usecase.Transaction, id string) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	current, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if len(r.store.byAccount[id]) > 0 {
		return domain.ErrAccountHasEntries
	}

	delete(r.store.accounts, id)
	t.onRollback(func() { r.store.accounts[id] = current })

	return nil
}

// ListByOwner lists the owner's accounts, most recently updated first.
func (r *AccountRepository) ListByOwner(_ context.Context, tx usecase.Transaction, ownerID string) ([]*domain.Account, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	return r.filter(func(a *domain.Account) bool { return a.OwnerID == ownerID }), nil
}

// ListByLinkedUser lists the accounts linked to a user, most recently updated first.
func (r *AccountRepository) ListByLinkedUser(_ context.Context, tx usecase.Transaction, userID string) ([]*domain.Account, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	return r.filter(func(a *domain.Account) bool {
		return a.LinkedUserID != nil && *a.LinkedUserID == userID
	}), nil
}

func (r *AccountRepository) filter(match func(*domain.Account) bool) []*domain.Account {
	accounts := make([]*domain.Account, 0)
	for _, a := range r.store.accounts {
		if match(a) {
			accounts = append(accounts, cloneAccount(a))
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].UpdatedAt.Equal(accounts[j].UpdatedAt) {
			return accounts[i].UpdatedAt.After(accounts[j].UpdatedAt)
		}
		return accounts[i].ID > accounts[j].ID
	})

	return accounts
}

func (r *AccountRepository) nameTaken(ownerID, name, exceptID string) bool {
	for _, a := range r.store.accounts {
		if a.ID != exceptID && a.OwnerID == ownerID && a.Name == name {
			return true
		}
	}
	return false
}
