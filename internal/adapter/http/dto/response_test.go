package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

func TestTransactionFromDomainSignsAmount(t *testing.T) {
	txn := &domain.Transaction{
		ID:           "txn-1",
		Amount:       decimal.RequireFromString("25.00"),
		Type:         domain.TransactionTypeExpense,
		Date:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Note:         "lunch",
		CategoryID:   "cat-1",
		CategoryName: "Food",
		AccountID:    "acc-1",
		AccountName:  "Checking",
	}

	resp := TransactionFromDomain(txn)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(-25)))
	assert.Equal(t, "lunch", resp.Description)
	assert.Equal(t, "Food", resp.Category)
	assert.Equal(t, "expense", resp.TransactionType)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, field := range []string{`"categoryId"`, `"accountId"`, `"accountName"`, `"transactionType"`, `"description"`} {
		assert.Contains(t, string(body), field)
	}
}

func TestDashboardFromUseCase(t *testing.T) {
	d := &usecase.Dashboard{
		Balance: decimal.NewFromInt(75),
		MonthlySummary: []domain.PeriodTotals{{
			Period:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Income:  decimal.NewFromInt(100),
			Expense: decimal.NewFromInt(25),
		}},
		CategorySpending: []domain.CategoryTotal{{CategoryID: "c", Name: "Food", Color: "#000000", Total: decimal.NewFromInt(25)}},
	}

	resp := DashboardFromUseCase(d)
	require.Len(t, resp.MonthlySummary, 1)
	assert.Equal(t, "2024-02", resp.MonthlySummary[0].Month)
	assert.True(t, resp.MonthlySummary[0].Net.Equal(decimal.NewFromInt(75)))
	assert.NotNil(t, resp.RecentTransactions)
	assert.Equal(t, "Food", resp.CategorySpending[0].Name)
}

func TestReportFromUseCaseFlattensChartPoints(t *testing.T) {
	r := &usecase.Report{
		ReportType: domain.ReportTypeCategories,
		TimeRange:  domain.TimeRangeWeek,
		Series:     []string{usecase.SeriesIncome, usecase.SeriesExpense},
		ChartData: []usecase.ChartPoint{{
			Label: "2024-01-01",
			Values: map[string]decimal.Decimal{
				usecase.SeriesIncome:  decimal.NewFromInt(10),
				usecase.SeriesExpense: decimal.NewFromInt(4),
			},
		}},
		Summary: []usecase.SummaryItem{{Label: usecase.SummaryNetSavings, Value: decimal.NewFromInt(6), Change: decimal.NewFromInt(100)}},
	}

	resp := ReportFromUseCase(r)
	require.Len(t, resp.ChartData, 1)
	assert.Equal(t, "2024-01-01", resp.ChartData[0]["name"])
	assert.Equal(t, decimal.NewFromInt(10), resp.ChartData[0]["income"])
	assert.Equal(t, "categories", resp.ReportType)
	assert.Equal(t, usecase.SummaryNetSavings, resp.Summary[0].Label)
}

func TestReconciliationFromUseCase(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	report := &usecase.ReconciliationReport{
		TotalAccounts:      2,
		ReconciledAccounts: 1,
		CheckedAt:          at,
		Accounts: []usecase.ReconciliationResult{
			{AccountID: "a", RecordedBalance: decimal.NewFromInt(10), CalculatedBalance: decimal.NewFromInt(10), IsReconciled: true},
			{AccountID: "b", RecordedBalance: decimal.NewFromInt(12), CalculatedBalance: decimal.NewFromInt(10), Difference: decimal.NewFromInt(2)},
		},
	}

	resp := ReconciliationFromUseCase(report)
	assert.False(t, resp.Consistent)
	require.Len(t, resp.Accounts, 2)
	assert.True(t, resp.Accounts[0].Reconciled)
	assert.True(t, resp.Accounts[1].Difference.Equal(decimal.NewFromInt(2)))

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `"reconciledAccounts":1`))
}
