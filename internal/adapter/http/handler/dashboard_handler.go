package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/trustbook/internal/adapter/http/dto"
	"github.com/iho/trustbook/internal/usecase"
)

// DashboardService defines the behavior needed by DashboardHandler.
type DashboardService interface {
	Summary(ctx context.Context, ownerID string, asOf time.Time) (*usecase.Dashboard, error)
}

// DashboardHandler serves the owner summary.
type DashboardHandler struct {
	dashboardUC DashboardService
	now         func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardUC DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC, now: time.Now}
}

// Get returns the caller's dashboard as of today.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	dash, err := h.dashboardUC.Summary(r.Context(), caller, h.now())
	if err != nil {
		writeDomainError(w, r, "failed to build dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromUseCase(dash))
}
