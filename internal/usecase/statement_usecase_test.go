package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
	"github.com/iho/trustbook/internal/usecase/mocks"
)

type statementMocks struct {
	txManager   *mocks.MockTransactionManager
	tx          *mocks.MockTransaction
	accountRepo *mocks.MockAccountRepository
	entryRepo   *mocks.MockEntryRepository
	cache       *mocks.MockStatementCache
	metrics     *mocks.MockMetricsRecorder
}

func newStatementMocks(ctrl *gomock.Controller) *statementMocks {
	m := &statementMocks{
		txManager:   mocks.NewMockTransactionManager(ctrl),
		tx:          mocks.NewMockTransaction(ctrl),
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		entryRepo:   mocks.NewMockEntryRepository(ctrl),
		cache:       mocks.NewMockStatementCache(ctrl),
		metrics:     mocks.NewMockMetricsRecorder(ctrl),
	}

	m.txManager.EXPECT().BeginReadOnly(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil).AnyTimes()
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

	return m
}

func (m *statementMocks) useCase() *usecase.StatementUseCase {
	return usecase.NewStatementUseCase(m.txManager, m.accountRepo, m.entryRepo, usecase.StatementConfig{
		Cache:    m.cache,
		CacheTTL: time.Minute,
		Metrics:  m.metrics,
	})
}

func TestStatementUseCase_ServesCachedVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newStatementMocks(ctrl)
	account := &domain.Account{ID: "acc-1", OwnerID: "owner-1", Name: "Alice", Version: 7}
	cached := &domain.Statement{AccountID: "acc-1", Closing: decimal.NewFromInt(42)}

	from, to, _ := domain.MonthWindow(2024, time.March)
	key := usecase.StatementCacheKey("acc-1", 7, from, to)

	m.accountRepo.EXPECT().GetByID(gomock.Any(), m.tx, "acc-1").Return(account, nil)
	m.cache.EXPECT().Get(gomock.Any(), key).Return(cached, true, nil)
	m.metrics.EXPECT().StatementServed(true)

	result, err := m.useCase().GetStatement(context.Background(), usecase.GetStatementInput{
		AccountID: "acc-1", CallerID: "owner-1", Year: 2024, Month: time.March,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Statement != cached {
		t.Errorf("expected cached statement")
	}
	if result.Role != domain.RoleOwner {
		t.Errorf("expected owner role, got %q", result.Role)
	}
}

func TestStatementUseCase_DerivesAndCachesOnMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newStatementMocks(ctrl)
	account := &domain.Account{ID: "acc-1", OwnerID: "owner-1", Name: "Alice", Version: 3}
	from, to, _ := domain.MonthWindow(2024, time.January)
	key := usecase.StatementCacheKey("acc-1", 3, from, to)

	m.accountRepo.EXPECT().GetByID(gomock.Any(), m.tx, "acc-1").Return(account, nil)
	m.cache.EXPECT().Get(gomock.Any(), key).Return(nil, false, nil)
	m.entryRepo.EXPECT().RangeByCanonicalOrder(gomock.Any(), m.tx, "acc-1", &from, &to).Return([]*domain.Entry{
		{ID: "e1", Direction: domain.DirectionCredit, Amount: decimal.NewFromInt(100), RunningBalance: decimal.NewFromInt(150)},
		{ID: "e2", Direction: domain.DirectionDebit, Amount: decimal.NewFromInt(40), RunningBalance: decimal.NewFromInt(110)},
	}, nil)
	m.entryRepo.EXPECT().LatestBefore(gomock.Any(), m.tx, "acc-1", from).Return(&domain.Entry{
		RunningBalance: decimal.NewFromInt(50),
	}, nil)
	m.cache.EXPECT().Set(gomock.Any(), key, gomock.Any(), time.Minute).Return(errors.New("redis down"))
	m.metrics.EXPECT().StatementServed(false)

	result, err := m.useCase().GetStatement(context.Background(), usecase.GetStatementInput{
		AccountID: "acc-1", CallerID: "owner-1", Year: 2024, Month: time.January,
	})
	if err != nil {
		t.Fatalf("cache write failure must not fail the read: %v", err)
	}

	stmt := result.Statement
	if !stmt.Opening.Equal(decimal.NewFromInt(50)) || !stmt.Closing.Equal(decimal.NewFromInt(110)) {
		t.Errorf("unexpected opening/closing %s/%s", stmt.Opening, stmt.Closing)
	}
	if !stmt.TotalCredits.Equal(decimal.NewFromInt(100)) || !stmt.TotalDebits.Equal(decimal.NewFromInt(40)) {
		t.Errorf("unexpected totals %s/%s", stmt.TotalCredits, stmt.TotalDebits)
	}
	if stmt.Count != 2 {
		t.Errorf("expected 2 entries, got %d", stmt.Count)
	}
}

func TestStatementUseCase_RejectsStranger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newStatementMocks(ctrl)
	m.accountRepo.EXPECT().GetByID(gomock.Any(), m.tx, "acc-1").Return(&domain.Account{ID: "acc-1", OwnerID: "owner-1"}, nil)

	_, err := m.useCase().GetStatement(context.Background(), usecase.GetStatementInput{
		AccountID: "acc-1", CallerID: "someone-else", Year: 2024, Month: time.January,
	})
	if !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestStatementUseCase_InvalidRange(t *testing.T) {
	uc := usecase.NewStatementUseCase(nil, nil, nil, usecase.StatementConfig{})

	_, err := uc.GetStatementForRange(context.Background(), usecase.StatementRangeInput{
		From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestStatementCacheKey_ChangesWithVersion(t *testing.T) {
	from, to, _ := domain.MonthWindow(2024, time.May)

	a := usecase.StatementCacheKey("acc-1", 1, from, to)
	b := usecase.StatementCacheKey("acc-1", 2, from, to)

	if a == b {
		t.Fatalf("expected distinct keys, got %q", a)
	}
	if a != "statement:acc-1:v1:2024-05-01:2024-05-31" {
		t.Errorf("unexpected key %q", a)
	}
}
