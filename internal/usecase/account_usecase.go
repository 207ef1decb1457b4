package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(txManager TransactionManager, accountRepo AccountRepository, entryRepo EntryRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	LinkedUserID *string
	OwnerID      string
	Name         string
	Phone        string
	Email        string
	Description  string
}

// CreateAccount creates a new account with empty aggregates.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:           uc.idGen.Generate(),
		OwnerID:      input.OwnerID,
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		Email:        domain.NormalizeEmail(input.Email),
		Description:  strings.TrimSpace(input.Description),
		LinkedUserID: normalizeLink(input.LinkedUserID),
		Balance:      decimal.Zero,
		TotalCredits: decimal.Zero,
		TotalDebits:  decimal.Zero,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := validateProfile(account); err != nil {
		return nil, err
	}

	err := runInTx(ctx, uc.txManager, nil, func(tx Transaction) error {
		return uc.accountRepo.Create(ctx, tx, account)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// AccountView is an account together with the caller's role.
type AccountView struct {
	Account *domain.Account
	Role    domain.Role
}

// GetAccount retrieves an account visible to the caller.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id, callerID string) (*AccountView, error) {
	view := &AccountView{}

	err := runReadOnly(ctx, uc.txManager, func(tx Transaction) error {
		account, err := uc.accountRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		view.Role, err = account.RoleOf(callerID)
		if err != nil {
			return err
		}

		view.Account = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// UpdateAccountInput patches an account's party identity. Nil fields are
// left unchanged; an empty LinkedUserID removes the link.
type UpdateAccountInput struct {
	Name         *string
	Phone        *string
	Email        *string
	Description  *string
	LinkedUserID *string
	ID           string
	OwnerID      string
}

// UpdateAccount updates the party identity of an owned account.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	var updated *domain.Account

	err := runInTx(ctx, uc.txManager, nil, func(tx Transaction) error {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			return err
		}
		if err := account.AuthorizeMutation(input.OwnerID); err != nil {
			return err
		}

		if input.Name != nil {
			account.Name = strings.TrimSpace(*input.Name)
		}
		if input.Phone != nil {
			account.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.Email != nil {
			account.Email = domain.NormalizeEmail(*input.Email)
		}
		if input.Description != nil {
			account.Description = strings.TrimSpace(*input.Description)
		}
		if input.LinkedUserID != nil {
			account.LinkedUserID = normalizeLink(input.LinkedUserID)
		}

		if err := validateProfile(account); err != nil {
			return err
		}

		account.UpdatedAt = time.Now().UTC()
		if err := uc.accountRepo.UpdateProfile(ctx, tx, account); err != nil {
			return err
		}

		account.Version++
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteAccount deletes an owned account that has no entries.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id, ownerID string) error {
	return runInTx(ctx, uc.txManager, nil, func(tx Transaction) error {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := account.AuthorizeMutation(ownerID); err != nil {
			return err
		}

		totals, err := uc.entryRepo.Totals(ctx, tx, id)
		if err != nil {
			return err
		}
		if totals.Count > 0 {
			return domain.ErrAccountHasEntries
		}

		return uc.accountRepo.Delete(ctx, tx, id)
	})
}

// ListAccounts lists the accounts the caller owns.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	var accounts []*domain.Account

	err := runReadOnly(ctx, uc.txManager, func(tx Transaction) error {
		var err error
		accounts, err = uc.accountRepo.ListByOwner(ctx, tx, ownerID)
		return err
	})

	return accounts, err
}

// ListSharedAccounts lists the accounts in which the caller is the linked party.
func (uc *AccountUseCase) ListSharedAccounts(ctx context.Context, userID string) ([]*domain.Account, error) {
	var accounts []*domain.Account

	err := runReadOnly(ctx, uc.txManager, func(tx Transaction) error {
		var err error
		accounts, err = uc.accountRepo.ListByLinkedUser(ctx, tx, userID)
		return err
	})

	return accounts, err
}

func validateProfile(account *domain.Account) error {
	if err := domain.ValidateAccountName(account.Name); err != nil {
		return err
	}
	if err := domain.ValidateEmail(account.Email); err != nil {
		return err
	}
	if err := domain.ValidateDescription(account.Description); err != nil {
		return err
	}
	if account.LinkedUserID != nil && *account.LinkedUserID == account.OwnerID {
		return domain.ErrCannotLinkSelf
	}
	return nil
}

func normalizeLink(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
