package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countEntriesFrom = `-- name: CountEntriesFrom :one
SELECT COUNT(*) FROM entries
WHERE account_id = $1
  AND ($2::date IS NULL OR business_date >= $2::date)
`

type CountEntriesFromParams struct {
	AccountID string      `json:"account_id"`
	FromDate  pgtype.Date `json:"from_date"`
}

func (q *Queries) CountEntriesFrom(ctx context.Context, arg CountEntriesFromParams) (int64, error) {
	row := q.db.QueryRow(ctx, countEntriesFrom, arg.AccountID, arg.FromDate)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createEntry = `-- name: CreateEntry :one
INSERT INTO entries (id, account_id, owner_id, business_date, direction, amount, narration, running_balance, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING seq
`

type CreateEntryParams struct {
	ID             string             `json:"id"`
	AccountID      string             `json:"account_id"`
	OwnerID        string             `json:"owner_id"`
	BusinessDate   pgtype.Date        `json:"business_date"`
	Direction      string             `json:"direction"`
	Amount         pgtype.Numeric     `json:"amount"`
	Narration      string             `json:"narration"`
	RunningBalance pgtype.Numeric     `json:"running_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (int64, error) {
	row := q.db.QueryRow(ctx, createEntry,
		arg.ID,
		arg.AccountID,
		arg.OwnerID,
		arg.BusinessDate,
		arg.Direction,
		arg.Amount,
		arg.Narration,
		arg.RunningBalance,
		arg.CreatedAt,
	)
	var seq int64
	err := row.Scan(&seq)
	return seq, err
}

const deleteEntry = `-- name: DeleteEntry :one
DELETE FROM entries WHERE id = $1
RETURNING id, seq, account_id, owner_id, business_date, direction, amount, narration, running_balance, created_at
`

func (q *Queries) DeleteEntry(ctx context.Context, id string) (Entry, error) {
	row := q.db.QueryRow(ctx, deleteEntry, id)
	var i Entry
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.AccountID,
		&i.OwnerID,
		&i.BusinessDate,
		&i.Direction,
		&i.Amount,
		&i.Narration,
		&i.RunningBalance,
		&i.CreatedAt,
	)
	return i, err
}

const getEntryByID = `-- name: GetEntryByID :one
SELECT id, seq, account_id, owner_id, business_date, direction, amount, narration, running_balance, created_at FROM entries WHERE id = $1
`

func (q *Queries) GetEntryByID(ctx context.Context, id string) (Entry, error) {
	row := q.db.QueryRow(ctx, getEntryByID, id)
	var i Entry
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.AccountID,
		&i.OwnerID,
		&i.BusinessDate,
		&i.Direction,
		&i.Amount,
		&i.Narration,
		&i.RunningBalance,
		&i.CreatedAt,
	)
	return i, err
}

const getLatestEntryBefore = `-- name: GetLatestEntryBefore :one
SELECT id, seq, account_id, owner_id, business_date, direction, amount, narration, running_balance, created_at FROM entries
WHERE account_id = $1 AND business_date < $2
ORDER BY business_date DESC, seq DESC
LIMIT 1
`

type GetLatestEntryBeforeParams struct {
	AccountID    string      `json:"account_id"`
	BusinessDate pgtype.Date `json:"business_date"`
}

func (q *Queries) GetLatestEntryBefore(ctx context.Context, arg GetLatestEntryBeforeParams) (Entry, error) {
	row := q.db.QueryRow(ctx, getLatestEntryBefore, arg.AccountID, arg.BusinessDate)
	var i Entry
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.AccountID,
		&i.OwnerID,
		&i.BusinessDate,
		&i.Direction,
		&i.Amount,
		&i.Narration,
		&i.RunningBalance,
		&i.CreatedAt,
	)
	return i, err
}

const getMostRecentEntry = `-- name: GetMostRecentEntry :one
SELECT id, seq, account_id, owner_id, business_date, direction, amount, narration, running_balance, created_at FROM entries
WHERE account_id = $1
ORDER BY business_date DESC, seq DESC
LIMIT 1
`

func (q *Queries) GetMostRecentEntry(ctx context.Context, accountID string) (Entry, error) {
	row := q.db.QueryRow(ctx, getMostRecentEntry, accountID)
	var i Entry
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.AccountID,
		&i.OwnerID,
		&i.BusinessDate,
		&i.Direction,
		&i.Amount,
		&i.Narration,
		&i.RunningBalance,
		&i.CreatedAt,
	)
	return i, err
}

const listEntriesByAccount = `-- name: ListEntriesByAccount :many
SELECT id, seq, account_id, owner_id, business_date, direction, amount, narration, running_balance, created_at FROM entries
WHERE account_id = $1
ORDER BY business_date DESC, seq DESC
LIMIT $2 OFFSET $3
`

type ListEntriesByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) ListEntriesByAccount(ctx context.Context, arg ListEntriesByAccountParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listEntriesByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Entry
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.Seq,
			&i.AccountID,
			&i.OwnerID,
			&i.BusinessDate,
			&i.Direction,
			&i.Amount,
			&i.Narration,
			&i.RunningBalance,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listEntriesByOwner = `-- name: ListEntriesByOwner :many
SELECT id, seq, account_id, owner_id, business_date, direction, amount, narration, running_balance, created_at FROM entries
WHERE owner_id = $1
ORDER BY business_date DESC, seq DESC
LIMIT $2 OFFSET $3
`

type ListEntriesByOwnerParams struct {
	OwnerID string `json:"owner_id"`
	Limit   int32  `json:"limit"`
	Offset  int32  `json:"offset"`
}

func (q *Queries) ListEntriesByOwner(ctx context.Context, arg ListEntriesByOwnerParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listEntriesByOwner, arg.OwnerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Entry
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.Seq,
			&i.AccountID,
			&i.OwnerID,
			&i.BusinessDate,
			&i.Direction,
			&i.Amount,
			&i.Narration,
			&i.RunningBalance,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listEntriesCanonical = `-- name: ListEntriesCanonical :many
SELECT id, seq, account_id, owner_id, business_date, direction, amount, narration, running_balance, created_at FROM entries
WHERE account_id = $1
  AND ($2::date IS NULL OR business_date >= $2::date)
  AND ($3::date IS NULL OR business_date <= $3::date)
ORDER BY business_date, seq
`

type ListEntriesCanonicalParams struct {
	AccountID string      `json:"account_id"`
	FromDate  pgtype.Date `json:"from_date"`
	ToDate    pgtype.Date `json:"to_date"`
}

func (q *Queries) ListEntriesCanonical(ctx context.Context, arg ListEntriesCanonicalParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listEntriesCanonical, arg.AccountID, arg.FromDate, arg.ToDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Entry
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.Seq,
			&i.AccountID,
			&i.OwnerID,
			&i.BusinessDate,
			&i.Direction,
			&i.Amount,
			&i.Narration,
			&i.RunningBalance,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumEntriesByAccount = `-- name: SumEntriesByAccount :one
SELECT
    COALESCE(SUM(amount) FILTER (WHERE direction = 'CREDIT'), 0)::NUMERIC AS credits,
    COALESCE(SUM(amount) FILTER (WHERE direction = 'DEBIT'), 0)::NUMERIC AS debits,
    COUNT(*) AS entry_count
FROM entries
WHERE account_id = $1
`

type SumEntriesByAccountRow struct {
	Credits    pgtype.Numeric `json:"credits"`
	Debits     pgtype.Numeric `json:"debits"`
	EntryCount int64          `json:"entry_count"`
}

func (q *Queries) SumEntriesByAccount(ctx context.Context, accountID string) (SumEntriesByAccountRow, error) {
	row := q.db.QueryRow(ctx, sumEntriesByAccount, accountID)
	var i SumEntriesByAccountRow
	err := row.Scan(&i.Credits, &i.Debits, &i.EntryCount)
	return i, err
}

const sumEntriesByOwner = `-- name: SumEntriesByOwner :one
SELECT
    COALESCE(SUM(amount) FILTER (WHERE direction = 'CREDIT'), 0)::NUMERIC AS credits,
    COALESCE(SUM(amount) FILTER (WHERE direction = 'DEBIT'), 0)::NUMERIC AS debits,
    COUNT(*) AS entry_count
FROM entries
WHERE owner_id = $1
  AND ($2::date IS NULL OR business_date >= $2::date)
  AND ($3::date IS NULL OR business_date <= $3::date)
`

type SumEntriesByOwnerParams struct {
	OwnerID  string      `json:"owner_id"`
	FromDate pgtype.Date `json:"from_date"`
	ToDate   pgtype.Date `json:"to_date"`
}

type SumEntriesByOwnerRow struct {
	Credits    pgtype.Numeric `json:"credits"`
	Debits     pgtype.Numeric `json:"debits"`
	EntryCount int64          `json:"entry_count"`
}

func (q *Queries) SumEntriesByOwner(ctx context.Context, arg SumEntriesByOwnerParams) (SumEntriesByOwnerRow, error) {
	row := q.db.QueryRow(ctx, sumEntriesByOwner, arg.OwnerID, arg.FromDate, arg.ToDate)
	var i SumEntriesByOwnerRow
	err := row.Scan(&i.Credits, &i.Debits, &i.EntryCount)
	return i, err
}

const updateEntryRunningBalance = `-- name: UpdateEntryRunningBalance :execrows
UPDATE entries SET running_balance = $2 WHERE id = $1
`

type UpdateEntryRunningBalanceParams struct {
	ID             string         `json:"id"`
	RunningBalance pgtype.Numeric `json:"running_balance"`
}

func (q *Queries) UpdateEntryRunningBalance(ctx context.Context, arg UpdateEntryRunningBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateEntryRunningBalance, arg.ID, arg.RunningBalance)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
