package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
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

type Entry struct {
	ID             string             `json:"id"`
	Seq            int64              `json:"seq"`
	AccountID      string             `json:"account_id"`
	OwnerID        string             `json:"owner_id"`
	BusinessDate   pgtype.Date        `json:"business_date"`
	Direction      string             `json:"direction"`
	Amount         pgtype.Numeric     `json:"amount"`
	Narration      string             `json:"narration"`
	RunningBalance pgtype.Numeric     `json:"running_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}
