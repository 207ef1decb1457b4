package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

// DateLayout is the wire format of business dates.
const DateLayout = "2006-01-02"

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name         string  `json:"name"                     validate:"required,max=100"`
	Phone        string  `json:"phone,omitempty"          validate:"max=50"`
	Email        string  `json:"email,omitempty"          validate:"omitempty,email"`
	Description  string  `json:"description,omitempty"    validate:"max=200"`
	LinkedUserID *string `json:"linked_user_id,omitempty" validate:"omitempty,max=100"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(ownerID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:      ownerID,
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        r.Email,
		Description:  r.Description,
		LinkedUserID: r.LinkedUserID,
	}
}

// UpdateAccountRequest patches an account. Omitted fields are unchanged and
// an empty linked_user_id removes the link.
type UpdateAccountRequest struct {
	Name         *string `json:"name,omitempty"           validate:"omitempty,min=1,max=100"`
	Phone        *string `json:"phone,omitempty"          validate:"omitempty,max=50"`
	Email        *string `json:"email,omitempty"          validate:"omitempty,max=254"`
	Description  *string `json:"description,omitempty"    validate:"omitempty,max=200"`
	LinkedUserID *string `json:"linked_user_id,omitempty" validate:"omitempty,max=100"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(id, ownerID string) usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		ID:           id,
		OwnerID:      ownerID,
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        r.Email,
		Description:  r.Description,
		LinkedUserID: r.LinkedUserID,
	}
}

// CreateEntryRequest posts a credit or debit against an account.
type CreateEntryRequest struct {
	AccountID    string          `json:"account_id"              validate:"required"`
	BusinessDate string          `json:"business_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Direction    string          `json:"direction"               validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Narration    string          `json:"narration"               validate:"required,max=200"`
}

// ToUseCaseInput converts to use case input. A missing business date is
// left zero so the ledger applies today's date.
func (r *CreateEntryRequest) ToUseCaseInput(ownerID string) (usecase.AddEntryInput, error) {
	direction, err := domain.ParseDirection(r.Direction)
	if err != nil {
		return usecase.AddEntryInput{}, err
	}

	var date time.Time
	if s := strings.TrimSpace(r.BusinessDate); s != "" {
		date, err = time.Parse(DateLayout, s)
		if err != nil {
			return usecase.AddEntryInput{}, err
		}
	}

	return usecase.AddEntryInput{
		BusinessDate: date,
		AccountID:    r.AccountID,
		OwnerID:      ownerID,
		Narration:    r.Narration,
		Direction:    direction,
		Amount:       r.Amount,
	}, nil
}

// DateRangeQuery is the from/to pair of a custom statement period.
type DateRangeQuery struct {
	From string `validate:"required,datetime=2006-01-02"`
	To   string `validate:"required,datetime=2006-01-02"`
}

// Parse returns both bounds as dates.
func (q DateRangeQuery) Parse() (time.Time, time.Time, error) {
	from, err := time.Parse(DateLayout, q.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(DateLayout, q.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
