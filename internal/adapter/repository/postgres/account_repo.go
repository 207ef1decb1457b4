package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/infrastructure/postgres/generated"
	"github.com/iho/trustbook/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct{}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

// Create persists a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = q.CreateAccount(ctx, generated.CreateAccountParams{
		ID:           account.ID,
		OwnerID:      account.OwnerID,
		Name:         account.Name,
		Phone:        account.Phone,
		Email:        account.Email,
		Description:  account.Description,
		LinkedUserID: textFromPtr(account.LinkedUserID),
		Balance:      decimalToNumeric(account.Balance),
		TotalCredits: decimalToNumeric(account.TotalCredits),
		TotalDebits:  decimalToNumeric(account.TotalDebits),
		EntryCount:   account.EntryCount,
		Version:      account.Version,
		CreatedAt:    timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(account.UpdatedAt),
	})
	return mapConstraintError(err)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := q.GetAccountByID(ctx, id)
	if err != nil {
		return nil, accountLookupError(err)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account holding a row lock until tx ends.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := q.GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		return nil, accountLookupError(err)
	}

	return rowToAccount(row), nil
}

// UpdateProfile writes the descriptive fields and bumps the version.
func (r *AccountRepository) UpdateProfile(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := q.UpdateAccountProfile(ctx, generated.UpdateAccountProfileParams{
		ID:           account.ID,
		Name:         account.Name,
		Phone:        account.Phone,
		Email:        account.Email,
		Description:  account.Description,
		LinkedUserID: textFromPtr(account.LinkedUserID),
		UpdatedAt:    timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return mapConstraintError(err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// UpdateAggregates overwrites the cached summary and bumps the version.
func (r *AccountRepository) UpdateAggregates(ctx context.Context, tx usecase.Transaction, id string, agg domain.Aggregates, updatedAt time.Time) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := q.UpdateAccountAggregates(ctx, generated.UpdateAccountAggregatesParams{
		ID:           id,
		Balance:      decimalToNumeric(agg.Balance),
		TotalCredits: decimalToNumeric(agg.TotalCredits),
		TotalDebits:  decimalToNumeric(agg.TotalDebits),
		EntryCount:   agg.EntryCount,
		UpdatedAt:    timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account. Accounts that still have entries are refused
// by the entries foreign key.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := q.DeleteAccount(ctx, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrAccountHasEntries
		}
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// ListByOwner returns the owner's accounts, most recently updated first.
func (r *AccountRepository) ListByOwner(ctx context.Context, tx usecase.Transaction, ownerID string) ([]*domain.Account, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// ListByLinkedUser returns accounts shared with userID.
func (r *AccountRepository) ListByLinkedUser(ctx context.Context, tx usecase.Transaction, userID string) ([]*domain.Account, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.ListAccountsByLinkedUser(ctx, textFromPtr(&userID))
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

func accountLookupError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrAccountNotFound
	}
	return err
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}
	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		Name:         row.Name,
		Phone:        row.Phone,
		Email:        row.Email,
		Description:  row.Description,
		LinkedUserID: ptrFromText(row.LinkedUserID),
		Balance:      numericToDecimal(row.Balance),
		TotalCredits: numericToDecimal(row.TotalCredits),
		TotalDebits:  numericToDecimal(row.TotalDebits),
		EntryCount:   row.EntryCount,
		Version:      row.Version,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
