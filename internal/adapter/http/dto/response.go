package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TransactionResponse is a transaction as shown by the dashboard. Amount
// is signed.
type TransactionResponse struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	CategoryID      string          `json:"categoryId"`
	AccountID       string          `json:"accountId"`
	AccountName     string          `json:"accountName"`
	TransactionType string          `json:"transactionType"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              t.ID,
		Amount:          t.SignedAmount(),
		Date:            t.Date,
		Description:     t.Note,
		Category:        t.CategoryName,
		CategoryID:      t.CategoryID,
		AccountID:       t.AccountID,
		AccountName:     t.AccountName,
		TransactionType: string(t.Type),
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:      a.ID,
		Name:    a.Name,
		Balance: a.Balance,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryFromDomain converts domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:    c.ID,
		Name:  c.Name,
		Color: c.Color,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// CategoryTotalResponse is one slice of a category breakdown.
type CategoryTotalResponse struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
}

func categoryTotalsFromDomain(totals []domain.CategoryTotal) []CategoryTotalResponse {
	result := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		result[i] = CategoryTotalResponse{
			CategoryID: t.CategoryID,
			Name:       t.Name,
			Color:      t.Color,
			Total:      t.Total,
		}
	}
	return result
}

// MonthlySummaryResponse is one month of the dashboard summary.
type MonthlySummaryResponse struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// DashboardResponse is the body of GET /api/dashboard.
type DashboardResponse struct {
	Balance            decimal.Decimal          `json:"balance"`
	RecentTransactions []*TransactionResponse   `json:"recentTransactions"`
	CategorySpending   []CategoryTotalResponse  `json:"categorySpending"`
	MonthlySummary     []MonthlySummaryResponse `json:"monthlySummary"`
}

// DashboardFromUseCase converts a dashboard to a response.
func DashboardFromUseCase(d *usecase.Dashboard) *DashboardResponse {
	months := make([]MonthlySummaryResponse, len(d.MonthlySummary))
	for i, m := range d.MonthlySummary {
		months[i] = MonthlySummaryResponse{
			Month:   domain.GranularityMonth.Label(m.Period),
			Income:  m.Income,
			Expense: m.Expense,
			Net:     m.Net(),
		}
	}

	return &DashboardResponse{
		Balance:            d.Balance,
		RecentTransactions: TransactionsFromDomain(d.RecentTransactions),
		CategorySpending:   categoryTotalsFromDomain(d.CategorySpending),
		MonthlySummary:     months,
	}
}

// SummaryItemResponse is a headline report figure.
type SummaryItemResponse struct {
	Label  string          `json:"label"`
	Value  decimal.Decimal `json:"value"`
	Change decimal.Decimal `json:"change"`
}

// ReportResponse is the body of GET /api/reports. Each chart point maps
// "name" to the bucket label and every series name to its value.
type ReportResponse struct {
	ReportType   string                  `json:"reportType"`
	TimeRange    string                  `json:"timeRange"`
	ChartData    []map[string]any        `json:"chartData"`
	Series       []string                `json:"series"`
	CategoryData []CategoryTotalResponse `json:"categoryData"`
	Summary      []SummaryItemResponse   `json:"summary"`
}

// ReportFromUseCase converts a report to a response.
func ReportFromUseCase(r *usecase.Report) *ReportResponse {
	chart := make([]map[string]any, len(r.ChartData))
	for i, p := range r.ChartData {
		point := make(map[string]any, len(p.Values)+1)
		point["name"] = p.Label
		for series, v := range p.Values {
			point[series] = v
		}
		chart[i] = point
	}

	summary := make([]SummaryItemResponse, len(r.Summary))
	for i, s := range r.Summary {
		summary[i] = SummaryItemResponse{Label: s.Label, Value: s.Value, Change: s.Change}
	}

	return &ReportResponse{
		ReportType:   string(r.ReportType),
		TimeRange:    string(r.TimeRange),
		ChartData:    chart,
		Series:       r.Series,
		CategoryData: categoryTotalsFromDomain(r.CategoryData),
		Summary:      summary,
	}
}

// AccountReconciliationResponse is the check result for one account.
type AccountReconciliationResponse struct {
	AccountID         string          `json:"accountId"`
	AccountName       string          `json:"accountName"`
	RecordedBalance   decimal.Decimal `json:"recordedBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	Difference        decimal.Decimal `json:"difference"`
	Reconciled        bool            `json:"reconciled"`
}

// ReconciliationResponse is the body of the reconciliation endpoints.
type ReconciliationResponse struct {
	TotalAccounts      int                             `json:"totalAccounts"`
	ReconciledAccounts int                             `json:"reconciledAccounts"`
	Repaired           int                             `json:"repaired"`
	Consistent         bool                            `json:"consistent"`
	CheckedAt          time.Time                       `json:"checkedAt"`
	Accounts           []AccountReconciliationResponse `json:"accounts"`
}

// ReconciliationFromUseCase converts a reconciliation report to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationReport) *ReconciliationResponse {
	accounts := make([]AccountReconciliationResponse, len(r.Accounts))
	for i, a := range r.Accounts {
		accounts[i] = AccountReconciliationResponse{
			AccountID:         a.AccountID,
			AccountName:       a.AccountName,
			RecordedBalance:   a.RecordedBalance,
			CalculatedBalance: a.CalculatedBalance,
			Difference:        a.Difference,
			Reconciled:        a.IsReconciled,
		}
	}

	return &ReconciliationResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Repaired:           r.Repaired,
		Consistent:         r.Consistent,
		CheckedAt:          r.CheckedAt,
		Accounts:           accounts,
	}
}
