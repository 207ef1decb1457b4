package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
)

// ReconciliationUseCase checks cached aggregates and running balances
// against a full canonical rescan of the entry log, and rebuilds them.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	recalc      *Recalculator
	retrier     Retrier
	logger      zerolog.Logger
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	cfg LedgerConfig,
) *ReconciliationUseCase {
	uc := &ReconciliationUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		recalc:      NewRecalculator(entryRepo, accountRepo, cfg.MaxRecalcEntries),
		retrier:     cfg.Retrier,
		logger:      zerolog.Nop(),
	}
	if cfg.Logger != nil {
		uc.logger = *cfg.Logger
	}

	return uc
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	CheckedAt    time.Time
	AccountID    string
	Cached       domain.Aggregates
	Rescanned    domain.Aggregates
	ChainBreaks  []domain.ChainBreak
	Ordered      bool
	IsReconciled bool
}

// ReconcileAccount compares the account's cached aggregates with a rescan
// and walks its running balances in canonical order. Chain breaks are
// expected after backdated entries posted in append-time mode.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID, callerID string) (*ReconciliationResult, error) {
	var result *ReconciliationResult

	err := runReadOnly(ctx, uc.txManager, func(tx Transaction) error {
		account, err := uc.accountRepo.GetByID(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if _, err := account.RoleOf(callerID); err != nil {
			return err
		}

		entries, err := uc.entryRepo.RangeByCanonicalOrder(ctx, tx, account.ID, nil, nil)
		if err != nil {
			return err
		}

		result = reconcile(account, entries)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RebuildAccount rewrites every running balance of an owned account in
// canonical order and refreshes its aggregates.
func (uc *ReconciliationUseCase) RebuildAccount(ctx context.Context, accountID, ownerID string) (*ReconciliationResult, error) {
	var result *ReconciliationResult

	err := runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if err := account.AuthorizeMutation(ownerID); err != nil {
			return err
		}

		rewritten, err := uc.recalc.RecalculateAll(ctx, tx, account.ID)
		if err != nil {
			return err
		}

		agg, err := uc.recalc.RefreshAggregates(ctx, tx, account.ID, time.Now().UTC())
		if err != nil {
			return err
		}
		account.ApplyAggregates(agg)

		entries, err := uc.entryRepo.RangeByCanonicalOrder(ctx, tx, account.ID, nil, nil)
		if err != nil {
			return err
		}

		uc.logger.Info().
			Str("account_id", account.ID).
			Int("rewritten", rewritten).
			Msg("account rebuilt")

		result = reconcile(account, entries)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func reconcile(account *domain.Account, entries []*domain.Entry) *ReconciliationResult {
	rescanned := domain.Rescan(entries)
	breaks := domain.VerifyChain(decimal.Zero, entries)
	ordered := domain.IsCanonical(entries)

	return &ReconciliationResult{
		CheckedAt:    time.Now().UTC(),
		AccountID:    account.ID,
		Cached:       account.Aggregates(),
		Rescanned:    rescanned,
		ChainBreaks:  breaks,
		Ordered:      ordered,
		IsReconciled: ordered && len(breaks) == 0 && rescanned.Equal(account.Aggregates()),
	}
}
