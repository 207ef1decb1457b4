package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/adapter/http/dto"
	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

type statementServiceStub struct {
	monthFn func(ctx context.Context, input usecase.GetStatementInput) (*usecase.StatementResult, error)
	rangeFn func(ctx context.Context, input usecase.StatementRangeInput) (*usecase.StatementResult, error)
}

func (s *statementServiceStub) GetStatement(ctx context.Context, input usecase.GetStatementInput) (*usecase.StatementResult, error) {
	return s.monthFn(ctx, input)
}

func (s *statementServiceStub) GetStatementForRange(ctx context.Context, input usecase.StatementRangeInput) (*usecase.StatementResult, error) {
	return s.rangeFn(ctx, input)
}

func sampleStatement(from, to time.Time) *usecase.StatementResult {
	account := &domain.Account{ID: "acc-1", Name: "Alice"}
	return &usecase.StatementResult{
		Statement: domain.NewStatement(account, from, to, decimal.NewFromInt(10), nil),
		Role:      domain.RoleOwner,
	}
}

func TestStatementHandler_Monthly(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{
		monthFn: func(ctx context.Context, input usecase.GetStatementInput) (*usecase.StatementResult, error) {
			if input.Year != 2024 || input.Month != time.February || input.CallerID != "user-1" {
				t.Fatalf("unexpected input %+v", input)
			}
			from, to, err := domain.MonthWindow(input.Year, input.Month)
			if err != nil {
				return nil, err
			}
			return sampleStatement(from, to), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/statement/2024/2", nil)
	req = asCaller(setChiURLParam(req, "id", "acc-1", "year", "2024", "month", "2"), "user-1")
	rec := httptest.NewRecorder()

	handler.Monthly(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.StatementResponse
	decodeBody(t, rec, &resp)
	if resp.From != "2024-02-01" || resp.To != "2024-02-29" {
		t.Fatalf("unexpected window %s..%s", resp.From, resp.To)
	}
	if !resp.ClosingBalance.Equal(decimal.NewFromInt(10)) || resp.EntryCount != 0 {
		t.Fatalf("empty month must close at opening balance, got %+v", resp)
	}
}

func TestStatementHandler_MonthlyRejectsBadPeriod(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{
		monthFn: func(ctx context.Context, input usecase.GetStatementInput) (*usecase.StatementResult, error) {
			return nil, domain.ErrInvalidPeriod
		},
	})

	for _, month := range []string{"feb", "13"} {
		req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/statement/2024/"+month, nil)
		req = asCaller(setChiURLParam(req, "id", "acc-1", "year", "2024", "month", month), "user-1")
		rec := httptest.NewRecorder()

		handler.Monthly(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("month %q: expected 400, got %d", month, rec.Code)
		}
	}
}

func TestStatementHandler_Range(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{
		rangeFn: func(ctx context.Context, input usecase.StatementRangeInput) (*usecase.StatementResult, error) {
			if input.From.After(input.To) {
				return nil, domain.ErrInvalidPeriod
			}
			return sampleStatement(input.From, input.To), nil
		},
	})

	tests := []struct {
		query string
		code  int
	}{
		{"?from=2024-01-10&to=2024-03-05", http.StatusOK},
		{"?from=2024-03-05&to=2024-01-10", http.StatusBadRequest},
		{"?from=2024-01-10", http.StatusBadRequest},
		{"?from=10-01-2024&to=2024-03-05", http.StatusBadRequest},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/statement"+tt.query, nil)
		req = asCaller(setChiURLParam(req, "id", "acc-1"), "user-1")
		rec := httptest.NewRecorder()

		handler.Range(rec, req)

		if rec.Code != tt.code {
			t.Fatalf("%s: expected %d, got %d: %s", tt.query, tt.code, rec.Code, rec.Body.String())
		}
	}
}
