package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role describes how a caller relates to an account.
type Role string

const (
	RoleOwner Role = "owner"
	RoleParty Role = "party"
)

// Account is a named counterparty owned by a user. The aggregate fields are
// a materialized summary of the account's entries and are always
// recomputable from the entry log.
type Account struct {
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LinkedUserID *string
	ID           string
	OwnerID      string
	Name         string
	Phone        string
	Email        string
	Description  string
	Balance      decimal.Decimal
	TotalCredits decimal.Decimal
	TotalDebits  decimal.Decimal
	EntryCount   int64
	Version      int64
}

// Aggregates are the cached per-account summary values.
type Aggregates struct {
	Balance      decimal.Decimal
	TotalCredits decimal.Decimal
	TotalDebits  decimal.Decimal
	EntryCount   int64
}

// Equal reports exact equality of every field.
func (a Aggregates) Equal(o Aggregates) bool {
	return a.Balance.Equal(o.Balance) &&
		a.TotalCredits.Equal(o.TotalCredits) &&
		a.TotalDebits.Equal(o.TotalDebits) &&
		a.EntryCount == o.EntryCount
}

// Aggregates returns the account's cached summary.
func (a *Account) Aggregates() Aggregates {
	return Aggregates{
		Balance:      a.Balance,
		TotalCredits: a.TotalCredits,
		TotalDebits:  a.TotalDebits,
		EntryCount:   a.EntryCount,
	}
}

// ApplyAggregates overwrites the cached summary.
func (a *Account) ApplyAggregates(agg Aggregates) {
	a.Balance = agg.Balance
	a.TotalCredits = agg.TotalCredits
	a.TotalDebits = agg.TotalDebits
	a.EntryCount = agg.EntryCount
}

// RoleOf returns the caller's role or ErrNotAuthorized when the caller is
// neither the owner nor the linked party.
func (a *Account) RoleOf(callerID string) (Role, error) {
	if callerID != "" && callerID == a.OwnerID {
		return RoleOwner, nil
	}
	if callerID != "" && a.LinkedUserID != nil && *a.LinkedUserID == callerID {
		return RoleParty, nil
	}
	return "", ErrNotAuthorized
}

// AuthorizeMutation allows only the owner to change the account or its entries.
func (a *Account) AuthorizeMutation(callerID string) error {
	if callerID == "" || callerID != a.OwnerID {
		return ErrNotOwner
	}
	return nil
}
