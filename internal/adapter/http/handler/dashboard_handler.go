package handler

import (
	"context"
	"net/http"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/adapter/http/middleware"
	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// DashboardService defines the behavior needed by DashboardHandler.
type DashboardService interface {
	GetDashboard(ctx context.Context, ownerID string) (*usecase.Dashboard, error)
}

// ReportService defines the behavior needed by DashboardHandler.
type ReportService interface {
	GetReport(ctx context.Context, input usecase.ReportInput) (*usecase.Report, error)
}

// DashboardHandler serves the read projections.
type DashboardHandler struct {
	dashboardUC DashboardService
	reportUC    ReportService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardUC DashboardService, reportUC ReportService) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC, reportUC: reportUC}
}

// Dashboard returns the owner's overview.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboardUC.GetDashboard(r.Context(), middleware.OwnerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromUseCase(d))
}

// Report returns the chart, categories and summary for one report type
// and time range. Both query parameters are required.
func (h *DashboardHandler) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawType, rawRange := q.Get("reportType"), q.Get("timeRange")
	if rawType == "" || rawRange == "" {
		writeMessage(w, http.StatusBadRequest, "reportType and timeRange are required")
		return
	}

	reportType, err := domain.ParseReportType(rawType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	timeRange, err := domain.ParseTimeRange(rawRange)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.reportUC.GetReport(r.Context(), usecase.ReportInput{
		OwnerID:    middleware.OwnerFromContext(r.Context()),
		ReportType: reportType,
		TimeRange:  timeRange,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(report))
}
