package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
)

// StatementUseCase derives read-only account statements from the entry log.
type StatementUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	cache       StatementCache
	cacheTTL    time.Duration
	metrics     MetricsRecorder
	logger      zerolog.Logger
}

// StatementConfig holds optional collaborators of StatementUseCase.
type StatementConfig struct {
	Cache    StatementCache
	CacheTTL time.Duration
	Metrics  MetricsRecorder
	Logger   *zerolog.Logger
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	cfg StatementConfig,
) *StatementUseCase {
	uc := &StatementUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		cache:       cfg.Cache,
		cacheTTL:    cfg.CacheTTL,
		metrics:     cfg.Metrics,
		logger:      zerolog.Nop(),
	}
	if uc.cacheTTL <= 0 {
		uc.cacheTTL = DefaultStatementCacheTTL
	}
	if uc.metrics == nil {
		uc.metrics = nopMetrics{}
	}
	if cfg.Logger != nil {
		uc.logger = *cfg.Logger
	}

	return uc
}

// GetStatementInput requests a monthly statement.
type GetStatementInput struct {
	AccountID string
	CallerID  string
	Year      int
	Month     time.Month
}

// StatementRangeInput requests a statement over inclusive business dates.
type StatementRangeInput struct {
	From      time.Time
	To        time.Time
	AccountID string
	CallerID  string
}

// StatementResult is a statement together with the caller's role.
type StatementResult struct {
	Statement *domain.Statement
	Role      domain.Role
}

// GetStatement returns the statement of one calendar month.
func (uc *StatementUseCase) GetStatement(ctx context.Context, input GetStatementInput) (*StatementResult, error) {
	from, to, err := domain.MonthWindow(input.Year, input.Month)
	if err != nil {
		return nil, err
	}

	return uc.GetStatementForRange(ctx, StatementRangeInput{
		From:      from,
		To:        to,
		AccountID: input.AccountID,
		CallerID:  input.CallerID,
	})
}

// GetStatementForRange returns the statement of an inclusive date range.
// The derivation runs in a snapshot, so it never sees a partially
// recomputed account.
func (uc *StatementUseCase) GetStatementForRange(ctx context.Context, input StatementRangeInput) (*StatementResult, error) {
	from, to := domain.DateOf(input.From), domain.DateOf(input.To)
	if input.From.IsZero() || input.To.IsZero() || to.Before(from) {
		return nil, domain.ErrInvalidPeriod
	}

	var (
		result   = &StatementResult{}
		cacheKey string
		cached   bool
	)

	err := runReadOnly(ctx, uc.txManager, func(tx Transaction) error {
		account, err := uc.accountRepo.GetByID(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		result.Role, err = account.RoleOf(input.CallerID)
		if err != nil {
			return err
		}

		cacheKey = StatementCacheKey(account.ID, account.Version, from, to)
		if stmt, ok := uc.cachedStatement(ctx, cacheKey); ok {
			result.Statement = stmt
			cached = true
			return nil
		}

		result.Statement, err = uc.derive(ctx, tx, account, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !cached && uc.cache != nil {
		if err := uc.cache.Set(ctx, cacheKey, result.Statement, uc.cacheTTL); err != nil {
			uc.logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache statement")
		}
	}

	uc.metrics.StatementServed(cached)

	return result, nil
}

func (uc *StatementUseCase) derive(ctx context.Context, tx Transaction, account *domain.Account, from, to time.Time) (*domain.Statement, error) {
	entries, err := uc.entryRepo.RangeByCanonicalOrder(ctx, tx, account.ID, &from, &to)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero

	previous, err := uc.entryRepo.LatestBefore(ctx, tx, account.ID, from)
	switch {
	case err == nil:
		opening = previous.RunningBalance
	case !errors.Is(err, domain.ErrEntryNotFound):
		return nil, err
	}

	return domain.NewStatement(account, from, to, opening, entries), nil
}

func (uc *StatementUseCase) cachedStatement(ctx context.Context, key string) (*domain.Statement, bool) {
	if uc.cache == nil {
		return nil, false
	}

	stmt, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("statement cache read failed")
		return nil, false
	}

	return stmt, ok
}

// StatementCacheKey identifies a statement of one account version.
func StatementCacheKey(accountID string, version int64, from, to time.Time) string {
	return fmt.Sprintf("statement:%s:v%d:%s:%s", accountID, version, from.Format(time.DateOnly), to.Format(time.DateOnly))
}
