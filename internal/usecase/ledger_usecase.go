package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
)

// LedgerConfig tunes the ledger consistency engine.
type LedgerConfig struct {
	// StrictOrdering computes a new entry's balance from its canonical
	// predecessor and recomputes every later entry. When false, a new entry
	// continues from the account's most recent entry and nothing after its
	// canonical position is touched, so backdated entries leave the chain
	// out of canonical order until the next delete or rebuild.
	StrictOrdering bool
	// MaxRecalcEntries bounds the entries one mutation may rewrite.
	MaxRecalcEntries int
	Retrier          Retrier
	Metrics          MetricsRecorder
	Logger           *zerolog.Logger
	Now              func() time.Time
}

// LedgerUseCase adds and deletes entries while keeping running balances and
// account aggregates consistent.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	recalc      *Recalculator
	idGen       IDGenerator
	retrier     Retrier
	metrics     MetricsRecorder
	logger      zerolog.Logger
	now         func() time.Time
	strict      bool
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	cfg LedgerConfig,
) *LedgerUseCase {
	uc := &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		recalc:      NewRecalculator(entryRepo, accountRepo, cfg.MaxRecalcEntries),
		idGen:       idGen,
		retrier:     cfg.Retrier,
		metrics:     cfg.Metrics,
		logger:      zerolog.Nop(),
		now:         cfg.Now,
		strict:      cfg.StrictOrdering,
	}
	if uc.retrier == nil {
		uc.retrier = noRetry{}
	}
	if uc.metrics == nil {
		uc.metrics = nopMetrics{}
	}
	if cfg.Logger != nil {
		uc.logger = *cfg.Logger
	}
	if uc.now == nil {
		uc.now = time.Now
	}

	return uc
}

// AddEntryInput represents input for posting an entry.
type AddEntryInput struct {
	BusinessDate time.Time
	AccountID    string
	OwnerID      string
	Narration    string
	Direction    domain.Direction
	Amount       decimal.Decimal
}

func (in *AddEntryInput) validate() error {
	if in.AccountID == "" || in.OwnerID == "" {
		return domain.ErrMissingIdentifier
	}
	if !in.Direction.IsValid() {
		return domain.ErrInvalidDirection
	}
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return err
	}
	return domain.ValidateNarration(in.Narration)
}

// AddEntry posts an entry and refreshes the account aggregates atomically.
func (uc *LedgerUseCase) AddEntry(ctx context.Context, input AddEntryInput) (*domain.Entry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var created *domain.Entry

	err := runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		now := uc.now().UTC()

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}
		if err := account.AuthorizeMutation(input.OwnerID); err != nil {
			return err
		}

		businessDate := now
		if !input.BusinessDate.IsZero() {
			businessDate = input.BusinessDate
		}

		entry := &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    account.ID,
			OwnerID:      account.OwnerID,
			BusinessDate: domain.DateOf(businessDate),
			Amount:       input.Amount,
			Direction:    input.Direction,
			Narration:    strings.TrimSpace(input.Narration),
			CreatedAt:    now,
		}

		if !uc.strict {
			entry.RunningBalance, err = uc.recalc.AppendBalance(ctx, tx, account.ID, entry.Direction, entry.Amount)
			if err != nil {
				return err
			}
		}

		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		recalculated := 0
		if uc.strict {
			recalculated, err = uc.recalc.RecalculateFrom(ctx, tx, account.ID, entry.BusinessDate)
			if err != nil {
				return err
			}
			entry, err = uc.entryRepo.GetByID(ctx, tx, entry.ID)
			if err != nil {
				return err
			}
		}

		agg, err := uc.recalc.RefreshAggregates(ctx, tx, account.ID, now)
		if err != nil {
			return err
		}

		uc.logger.Info().
			Str("account_id", account.ID).
			Str("entry_id", entry.ID).
			Str("direction", string(entry.Direction)).
			Str("amount", entry.Amount.String()).
			Str("running_balance", entry.RunningBalance.String()).
			Str("account_balance", agg.Balance.String()).
			Int("recalculated", recalculated).
			Msg("entry added")

		created = entry
		return nil
	})
	if err != nil {
		uc.observeFailure(err, input.AccountID)
		return nil, err
	}

	uc.metrics.EntryAdded(created.Direction)

	return created, nil
}

// DeleteEntryResult describes a completed delete.
type DeleteEntryResult struct {
	Entry        *domain.Entry
	Aggregates   domain.Aggregates
	Recalculated int
}

// DeleteEntry removes an entry, recomputes the running balance of every
// entry dated on or after it and refreshes the account aggregates, all in
// one transaction.
func (uc *LedgerUseCase) DeleteEntry(ctx context.Context, entryID, ownerID string) (*DeleteEntryResult, error) {
	if entryID == "" || ownerID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	var result *DeleteEntryResult

	err := runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		existing, err := uc.entryRepo.GetByID(ctx, tx, entryID)
		if err != nil {
			return err
		}

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, existing.AccountID)
		if err != nil {
			return err
		}
		if err := account.AuthorizeMutation(ownerID); err != nil {
			return err
		}

		removed, err := uc.entryRepo.Delete(ctx, tx, entryID)
		if err != nil {
			return err
		}

		recalculated, err := uc.recalc.RecalculateFrom(ctx, tx, removed.AccountID, removed.BusinessDate)
		if err != nil {
			return err
		}

		agg, err := uc.recalc.RefreshAggregates(ctx, tx, removed.AccountID, uc.now().UTC())
		if err != nil {
			return err
		}

		uc.logger.Info().
			Str("account_id", removed.AccountID).
			Str("entry_id", removed.ID).
			Time("business_date", removed.BusinessDate).
			Int("recalculated", recalculated).
			Str("account_balance", agg.Balance.String()).
			Msg("entry deleted")

		result = &DeleteEntryResult{
			Entry:        removed,
			Aggregates:   agg,
			Recalculated: recalculated,
		}
		return nil
	})
	if err != nil {
		uc.observeFailure(err, entryID)
		return nil, err
	}

	uc.metrics.EntryDeleted()
	uc.metrics.EntriesRecalculated(result.Recalculated)

	return result, nil
}

func (uc *LedgerUseCase) observeFailure(err error, ref string) {
	if errors.Is(err, domain.ErrRecalculationTooLarge) {
		uc.metrics.RecalculationRejected()
		uc.logger.Warn().Err(err).Str("ref", ref).Msg("recalculation rejected")
	}
}

// ListEntriesInput represents input for listing an account's entries.
type ListEntriesInput struct {
	AccountID string
	CallerID  string
	Page      int
	PageSize  int
}

// EntryPage is one page of entries, newest first.
type EntryPage struct {
	Role       domain.Role
	Entries    []*domain.Entry
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// ListEntries lists an account's entries for its owner or linked party.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, input ListEntriesInput) (*EntryPage, error) {
	limit, offset := domain.ValidatePagination(input.Page, input.PageSize)

	page := &EntryPage{Page: offset/limit + 1, PageSize: limit}

	err := runReadOnly(ctx, uc.txManager, func(tx Transaction) error {
		account, err := uc.accountRepo.GetByID(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		page.Role, err = account.RoleOf(input.CallerID)
		if err != nil {
			return err
		}

		page.Entries, err = uc.entryRepo.ListByAccount(ctx, tx, account.ID, limit, offset)
		if err != nil {
			return err
		}

		page.Total = account.EntryCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	page.TotalPages = totalPages(page.Total, limit)

	return page, nil
}

// ListOwnerEntries lists every entry the owner posted, newest first.
func (uc *LedgerUseCase) ListOwnerEntries(ctx context.Context, ownerID string, pageNum, pageSize int) (*EntryPage, error) {
	if ownerID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	limit, offset := domain.ValidatePagination(pageNum, pageSize)

	page := &EntryPage{Role: domain.RoleOwner, Page: offset/limit + 1, PageSize: limit}

	err := runReadOnly(ctx, uc.txManager, func(tx Transaction) error {
		var err error

		page.Entries, err = uc.entryRepo.ListByOwner(ctx, tx, ownerID, limit, offset)
		if err != nil {
			return err
		}

		totals, err := uc.entryRepo.OwnerTotals(ctx, tx, ownerID, nil, nil)
		if err != nil {
			return err
		}

		page.Total = totals.Count
		return nil
	})
	if err != nil {
		return nil, err
	}

	page.TotalPages = totalPages(page.Total, limit)

	return page, nil
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
