package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"owner_id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone,omitempty"`
	Email        string          `json:"email,omitempty"`
	Description  string          `json:"description,omitempty"`
	LinkedUserID *string         `json:"linked_user_id,omitempty"`
	Role         domain.Role     `json:"role,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	EntryCount   int64           `json:"entry_count"`
	Version      int64           `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:           a.ID,
		OwnerID:      a.OwnerID,
		Name:         a.Name,
		Phone:        a.Phone,
		Email:        a.Email,
		Description:  a.Description,
		LinkedUserID: a.LinkedUserID,
		Balance:      a.Balance,
		TotalCredits: a.TotalCredits,
		TotalDebits:  a.TotalDebits,
		EntryCount:   a.EntryCount,
		Version:      a.Version,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// AccountViewFromUseCase converts an account together with the caller's role.
func AccountViewFromUseCase(v *usecase.AccountView) *AccountResponse {
	resp := AccountFromDomain(v.Account)
	resp.Role = v.Role
	return resp
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account, role domain.Role) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
		result[i].Role = role
	}
	return result
}

// ListAccountsResponse is a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID             string           `json:"id"`
	AccountID      string           `json:"account_id"`
	BusinessDate   string           `json:"business_date"`
	Sequence       int64            `json:"sequence"`
	Direction      domain.Direction `json:"direction"`
	Amount         decimal.Decimal  `json:"amount"`
	Narration      string           `json:"narration"`
	RunningBalance decimal.Decimal  `json:"running_balance"`
	CreatedAt      time.Time        `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:             e.ID,
		AccountID:      e.AccountID,
		BusinessDate:   e.BusinessDate.Format(DateLayout),
		Sequence:       e.Sequence,
		Direction:      e.Direction,
		Amount:         e.Amount,
		Narration:      e.Narration,
		RunningBalance: e.RunningBalance,
		CreatedAt:      e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// EntryPageResponse is one page of entries, newest first.
type EntryPageResponse struct {
	Entries    []*EntryResponse `json:"entries"`
	Role       domain.Role      `json:"role"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// EntryPageFromUseCase converts a page of entries.
func EntryPageFromUseCase(p *usecase.EntryPage) *EntryPageResponse {
	return &EntryPageResponse{
		Entries:    EntriesFromDomain(p.Entries),
		Role:       p.Role,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

// AggregatesResponse is an account's balance summary.
type AggregatesResponse struct {
	Balance      decimal.Decimal `json:"balance"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	EntryCount   int64           `json:"entry_count"`
}

// AggregatesFromDomain converts aggregates.
func AggregatesFromDomain(a domain.Aggregates) AggregatesResponse {
	return AggregatesResponse{
		Balance:      a.Balance,
		TotalCredits: a.TotalCredits,
		TotalDebits:  a.TotalDebits,
		EntryCount:   a.EntryCount,
	}
}

// DeleteEntryResponse reports the removed entry and the refreshed account summary.
type DeleteEntryResponse struct {
	Entry        *EntryResponse     `json:"entry"`
	Account      AggregatesResponse `json:"account"`
	Recalculated int                `json:"recalculated"`
}

// DeleteEntryFromUseCase converts a delete result.
func DeleteEntryFromUseCase(r *usecase.DeleteEntryResult) *DeleteEntryResponse {
	return &DeleteEntryResponse{
		Entry:        EntryFromDomain(r.Entry),
		Account:      AggregatesFromDomain(r.Aggregates),
		Recalculated: r.Recalculated,
	}
}

// StatementResponse is a derived statement.
type StatementResponse struct {
	AccountID      string           `json:"account_id"`
	AccountName    string           `json:"account_name"`
	Role           domain.Role      `json:"role"`
	From           string           `json:"from"`
	To             string           `json:"to"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance decimal.Decimal  `json:"closing_balance"`
	TotalCredits   decimal.Decimal  `json:"total_credits"`
	TotalDebits    decimal.Decimal  `json:"total_debits"`
	EntryCount     int              `json:"entry_count"`
	Entries        []*EntryResponse `json:"entries"`
}

// StatementFromUseCase converts a statement result.
func StatementFromUseCase(r *usecase.StatementResult) *StatementResponse {
	st := r.Statement
	return &StatementResponse{
		AccountID:      st.AccountID,
		AccountName:    st.AccountName,
		Role:           r.Role,
		From:           st.From.Format(DateLayout),
		To:             st.To.Format(DateLayout),
		OpeningBalance: st.Opening,
		ClosingBalance: st.Closing,
		TotalCredits:   st.TotalCredits,
		TotalDebits:    st.TotalDebits,
		EntryCount:     st.Count,
		Entries:        EntriesFromDomain(st.Entries),
	}
}

// MonthlyTotalsResponse is one month of the dashboard trend.
type MonthlyTotalsResponse struct {
	Month   string          `json:"month"`
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
}

// DashboardResponse is the owner's summary.
type DashboardResponse struct {
	Balance       decimal.Decimal         `json:"balance"`
	TotalCredits  decimal.Decimal         `json:"total_credits"`
	TotalDebits   decimal.Decimal         `json:"total_debits"`
	EntryCount    int64                   `json:"entry_count"`
	AccountCount  int                     `json:"account_count"`
	RecentEntries []*EntryResponse        `json:"recent_entries"`
	Trend         []MonthlyTotalsResponse `json:"trend"`
}

// DashboardFromUseCase converts a dashboard.
func DashboardFromUseCase(d *usecase.Dashboard) *DashboardResponse {
	trend := make([]MonthlyTotalsResponse, len(d.Trend))
	for i, m := range d.Trend {
		trend[i] = MonthlyTotalsResponse{
			Month:   time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
			Credits: m.Credits,
			Debits:  m.Debits,
		}
	}

	return &DashboardResponse{
		Balance:       d.Balance,
		TotalCredits:  d.TotalCredits,
		TotalDebits:   d.TotalDebits,
		EntryCount:    d.EntryCount,
		AccountCount:  d.AccountCount,
		RecentEntries: EntriesFromDomain(d.RecentEntries),
		Trend:         trend,
	}
}

// ChainBreakResponse is one stored running balance that disagrees with a rescan.
type ChainBreakResponse struct {
	EntryID      string          `json:"entry_id"`
	BusinessDate string          `json:"business_date"`
	Sequence     int64           `json:"sequence"`
	Stored       decimal.Decimal `json:"stored"`
	Expected     decimal.Decimal `json:"expected"`
}

// ReconciliationResponse reports an account's consistency check.
type ReconciliationResponse struct {
	AccountID    string               `json:"account_id"`
	CheckedAt    time.Time            `json:"checked_at"`
	Cached       AggregatesResponse   `json:"cached"`
	Rescanned    AggregatesResponse   `json:"rescanned"`
	ChainBreaks  []ChainBreakResponse `json:"chain_breaks"`
	Ordered      bool                 `json:"ordered"`
	IsReconciled bool                 `json:"is_reconciled"`
}

// ReconciliationFromUseCase converts a reconciliation result.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	breaks := make([]ChainBreakResponse, len(r.ChainBreaks))
	for i, b := range r.ChainBreaks {
		breaks[i] = ChainBreakResponse{
			EntryID:      b.EntryID,
			BusinessDate: b.Position.BusinessDate.Format(DateLayout),
			Sequence:     b.Position.Sequence,
			Stored:       b.Stored,
			Expected:     b.Expected,
		}
	}

	return &ReconciliationResponse{
		AccountID:    r.AccountID,
		CheckedAt:    r.CheckedAt,
		Cached:       AggregatesFromDomain(r.Cached),
		Rescanned:    AggregatesFromDomain(r.Rescanned),
		ChainBreaks:  breaks,
		Ordered:      r.Ordered,
		IsReconciled: r.IsReconciled,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
