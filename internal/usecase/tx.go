package usecase

import (
	"context"

	"github.com/iho/trustbook/internal/domain"
)

// runInTx executes fn in a read-write transaction, retried as a whole by
// retrier on transient storage failures. fn must not have side effects
// outside tx.
func runInTx(ctx context.Context, txManager TransactionManager, retrier Retrier, fn func(tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	if retrier == nil {
		retrier = noRetry{}
	}

	return retrier.Retry(ctx, func() error {
		tx, err := txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// runReadOnly executes fn in a snapshot transaction.
func runReadOnly(ctx context.Context, txManager TransactionManager, fn func(tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := txManager.BeginReadOnly(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}

type nopMetrics struct{}

func (nopMetrics) EntryAdded(domain.Direction) {}
func (nopMetrics) EntryDeleted()               {}
func (nopMetrics) EntriesRecalculated(int)     {}
func (nopMetrics) RecalculationRejected()      {}
func (nopMetrics) StatementServed(bool)        {}
