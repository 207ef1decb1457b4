package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultMaxRecalcEntries bounds the entries a single mutation may rewrite.
	DefaultMaxRecalcEntries = 10000

	// DefaultStatementCacheTTL is how long derived statements stay cached.
	DefaultStatementCacheTTL = 10 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DashboardTrendMonths is the length of the owner activity trend.
	DashboardTrendMonths = 6

	// DashboardRecentEntries is how many entries the dashboard shows.
	DashboardRecentEntries = 5
)
