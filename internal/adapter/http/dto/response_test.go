package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

func TestEntryFromDomainFormatsBusinessDate(t *testing.T) {
	resp := EntryFromDomain(&domain.Entry{
		ID:             "e-1",
		AccountID:      "acc-1",
		BusinessDate:   time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		Sequence:       4,
		Direction:      domain.DirectionCredit,
		Amount:         decimal.RequireFromString("10.10"),
		RunningBalance: decimal.RequireFromString("110.10"),
	})

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := string(raw)
	for _, want := range []string{`"business_date":"2024-03-09"`, `"amount":"10.1"`, `"running_balance":"110.1"`, `"direction":"CREDIT"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestStatementFromUseCase(t *testing.T) {
	resp := StatementFromUseCase(&usecase.StatementResult{
		Role: domain.RoleParty,
		Statement: &domain.Statement{
			From:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			To:           time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			AccountID:    "acc-1",
			AccountName:  "Alice",
			Opening:      decimal.NewFromInt(50),
			Closing:      decimal.NewFromInt(40),
			TotalDebits:  decimal.NewFromInt(10),
			TotalCredits: decimal.Zero,
		},
	})

	if resp.From != "2024-05-01" || resp.To != "2024-05-31" || resp.Role != domain.RoleParty {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Entries == nil || len(resp.Entries) != 0 {
		t.Fatalf("expected empty entries list, got %v", resp.Entries)
	}
}

func TestDashboardFromUseCaseFormatsMonths(t *testing.T) {
	resp := DashboardFromUseCase(&usecase.Dashboard{
		Trend: []domain.MonthlyTotals{{Year: 2023, Month: time.December}, {Year: 2024, Month: time.January}},
	})

	if resp.Trend[0].Month != "2023-12" || resp.Trend[1].Month != "2024-01" {
		t.Fatalf("unexpected trend months %+v", resp.Trend)
	}
}

func TestReconciliationFromUseCase(t *testing.T) {
	resp := ReconciliationFromUseCase(&usecase.ReconciliationResult{
		AccountID: "acc-1",
		ChainBreaks: []domain.ChainBreak{{
			EntryID:  "e-2",
			Position: domain.Position{BusinessDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Sequence: 2},
			Stored:   decimal.NewFromInt(90),
			Expected: decimal.NewFromInt(-10),
		}},
	})

	if len(resp.ChainBreaks) != 1 || resp.ChainBreaks[0].BusinessDate != "2024-01-01" || resp.ChainBreaks[0].Sequence != 2 {
		t.Fatalf("unexpected breaks %+v", resp.ChainBreaks)
	}
}
