package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAccount = `-- name: CreateAccount :exec
INSERT INTO accounts (
    id, owner_id, name, phone, email, description, linked_user_id,
    balance, total_credits, total_debits, entry_count, version, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`

type CreateAccountParams struct {
	ID           string             `json:"id"`
	OwnerID      string             `json:"owner_id"`
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	Email        string             `json:"email"`
	Description  string             `json:"description"`
	LinkedUserID pgtype.Text        `json:"linked_user_id"`
	Balance      pgtype.Numeric     `json:"balance"`
	TotalCredits pgtype.Numeric     `json:"total_credits"`
	TotalDebits  pgtype.Numeric     `json:"total_debits"`
	EntryCount   int64              `json:"entry_count"`
	Version      int64              `json:"version"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) error {
	_, err := q.db.Exec(ctx, createAccount,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.Phone,
		arg.Email,
		arg.Description,
		arg.LinkedUserID,
		arg.Balance,
		arg.TotalCredits,
		arg.TotalDebits,
		arg.EntryCount,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteAccount = `-- name: DeleteAccount :execrows
DELETE FROM accounts WHERE id = $1
`

func (q *Queries) DeleteAccount(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAccount, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, owner_id, name, phone, email, description, linked_user_id, balance, total_credits, total_debits, entry_count, version, created_at, updated_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Phone,
		&i.Email,
		&i.Description,
		&i.LinkedUserID,
		&i.Balance,
		&i.TotalCredits,
		&i.TotalDebits,
		&i.EntryCount,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByIDForUpdate = `-- name: GetAccountByIDForUpdate :one
SELECT id, owner_id, name, phone, email, description, linked_user_id, balance, total_credits, total_debits, entry_count, version, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetAccountByIDForUpdate(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByIDForUpdate, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Phone,
		&i.Email,
		&i.Description,
		&i.LinkedUserID,
		&i.Balance,
		&i.TotalCredits,
		&i.TotalDebits,
		&i.EntryCount,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listAccountsByLinkedUser = `-- name: ListAccountsByLinkedUser :many
SELECT id, owner_id, name, phone, email, description, linked_user_id, balance, total_credits, total_debits, entry_count, version, created_at, updated_at FROM accounts WHERE linked_user_id = $1 ORDER BY updated_at DESC, id DESC
`

func (q *Queries) ListAccountsByLinkedUser(ctx context.Context, linkedUserID pgtype.Text) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccountsByLinkedUser, linkedUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Name,
			&i.Phone,
			&i.Email,
			&i.Description,
			&i.LinkedUserID,
			&i.Balance,
			&i.TotalCredits,
			&i.TotalDebits,
			&i.EntryCount,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const listAccountsByOwner = `-- name: ListAccountsByOwner :many
SELECT id, owner_id, name, phone, email, description, linked_user_id, balance, total_credits, total_debits, entry_count, version, created_at, updated_at FROM accounts WHERE owner_id = $1 ORDER BY updated_at DESC, id DESC
`

func (q *Queries) ListAccountsByOwner(ctx context.Context, ownerID string) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccountsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Name,
			&i.Phone,
			&i.Email,
			&i.Description,
			&i.LinkedUserID,
			&i.Balance,
			&i.TotalCredits,
			&i.TotalDebits,
			&i.EntryCount,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateAccountAggregates = `-- name: UpdateAccountAggregates :execrows
UPDATE accounts
SET balance = $2, total_credits = $3, total_debits = $4, entry_count = $5,
    updated_at = $6, version = version + 1
WHERE id = $1
`

type UpdateAccountAggregatesParams struct {
	ID           string             `json:"id"`
	Balance      pgtype.Numeric     `json:"balance"`
	TotalCredits pgtype.Numeric     `json:"total_credits"`
	TotalDebits  pgtype.Numeric     `json:"total_debits"`
	EntryCount   int64              `json:"entry_count"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountAggregates(ctx context.Context, arg UpdateAccountAggregatesParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateAccountAggregates,
		arg.ID,
		arg.Balance,
		arg.TotalCredits,
		arg.TotalDebits,
		arg.EntryCount,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateAccountProfile = `-- name: UpdateAccountProfile :execrows
UPDATE accounts
SET name = $2, phone = $3, email = $4, description = $5, linked_user_id = $6,
    updated_at = $7, version = version + 1
WHERE id = $1
`

type UpdateAccountProfileParams struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	Email        string             `json:"email"`
	Description  string             `json:"description"`
	LinkedUserID pgtype.Text        `json:"linked_user_id"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountProfile(ctx context.Context, arg UpdateAccountProfileParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateAccountProfile,
		arg.ID,
		arg.Name,
		arg.Phone,
		arg.Email,
		arg.Description,
		arg.LinkedUserID,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
