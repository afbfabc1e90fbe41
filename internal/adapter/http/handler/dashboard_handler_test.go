package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

type dashboardServiceStub struct {
	fn func(ctx context.Context, ownerID string) (*usecase.Dashboard, error)
}

func (s *dashboardServiceStub) GetDashboard(ctx context.Context, ownerID string) (*usecase.Dashboard, error) {
	return s.fn(ctx, ownerID)
}

type reportServiceStub struct {
	fn func(ctx context.Context, input usecase.ReportInput) (*usecase.Report, error)
}

func (s *reportServiceStub) GetReport(ctx context.Context, input usecase.ReportInput) (*usecase.Report, error) {
	return s.fn(ctx, input)
}

func TestDashboardHandler_Dashboard(t *testing.T) {
	h := NewDashboardHandler(&dashboardServiceStub{
		fn: func(ctx context.Context, ownerID string) (*usecase.Dashboard, error) {
			return &usecase.Dashboard{
				Balance:            decimal.RequireFromString("120.50"),
				RecentTransactions: []*domain.Transaction{sampleTransaction()},
			}, nil
		},
	}, nil)

	rec := serve(http.MethodGet, "/api/dashboard", "/api/dashboard", nil, h.Dashboard)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.DashboardResponse
	decodeBody(t, rec, &resp)
	if !resp.Balance.Equal(decimal.RequireFromString("120.50")) || len(resp.RecentTransactions) != 1 {
		t.Fatalf("unexpected dashboard %+v", resp)
	}
}

func TestDashboardHandler_ReportRequiresParameters(t *testing.T) {
	h := NewDashboardHandler(nil, &reportServiceStub{
		fn: func(ctx context.Context, input usecase.ReportInput) (*usecase.Report, error) {
			t.Fatalf("use case should not be reached")
			return nil, nil
		},
	})

	for _, path := range []string{
		"/api/reports",
		"/api/reports?reportType=spending",
		"/api/reports?timeRange=week",
		"/api/reports?reportType=bogus&timeRange=week",
		"/api/reports?reportType=spending&timeRange=decade",
	} {
		rec := serve(http.MethodGet, "/api/reports", path, nil, h.Report)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestDashboardHandler_Report(t *testing.T) {
	var captured usecase.ReportInput
	h := NewDashboardHandler(nil, &reportServiceStub{
		fn: func(ctx context.Context, input usecase.ReportInput) (*usecase.Report, error) {
			captured = input
			return &usecase.Report{
				ReportType: input.ReportType,
				TimeRange:  input.TimeRange,
				Series:     []string{usecase.SeriesExpense},
				ChartData: []usecase.ChartPoint{{
					Label:  "2024-01-01",
					Values: map[string]decimal.Decimal{usecase.SeriesExpense: decimal.NewFromInt(3)},
				}},
			}, nil
		},
	})

	rec := serve(http.MethodGet, "/api/reports", "/api/reports?reportType=Spending&timeRange=week", nil, h.Report)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.ReportType != domain.ReportTypeSpending || captured.TimeRange != domain.TimeRangeWeek || captured.OwnerID != testOwner {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.ReportResponse
	decodeBody(t, rec, &resp)
	if len(resp.ChartData) != 1 || resp.ChartData[0]["name"] != "2024-01-01" || len(resp.Series) != 1 {
		t.Fatalf("unexpected report %+v", resp)
	}
}
