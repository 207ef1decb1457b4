package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/trustbook/internal/adapter/http/dto"
	"github.com/iho/trustbook/internal/usecase"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	GetStatement(ctx context.Context, input usecase.GetStatementInput) (*usecase.StatementResult, error)
	GetStatementForRange(ctx context.Context, input usecase.StatementRangeInput) (*usecase.StatementResult, error)
}

// StatementHandler serves derived statements.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Monthly returns the statement of one calendar month.
func (h *StatementHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	if errY != nil || errM != nil {
		writeError(w, http.StatusBadRequest, "invalid statement period", "year and month must be numbers")
		return
	}

	result, err := h.statementUC.GetStatement(r.Context(), usecase.GetStatementInput{
		AccountID: chi.URLParam(r, "id"),
		CallerID:  caller,
		Year:      year,
		Month:     time.Month(month),
	})
	if err != nil {
		writeDomainError(w, r, "failed to get statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(result))
}

// Range returns the statement for ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *StatementHandler) Range(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	q := dto.DateRangeQuery{From: r.URL.Query().Get("from"), To: r.URL.Query().Get("to")}
	if err := dto.Validate(&q); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	from, to, err := q.Parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid statement period", err.Error())
		return
	}

	result, err := h.statementUC.GetStatementForRange(r.Context(), usecase.StatementRangeInput{
		AccountID: chi.URLParam(r, "id"),
		CallerID:  caller,
		From:      from,
		To:        to,
	})
	if err != nil {
		writeDomainError(w, r, "failed to get statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(result))
}
