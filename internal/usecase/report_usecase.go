package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/finledger/internal/domain"
)

// Series names carried by report chart points.
const (
	SeriesIncome  = "income"
	SeriesExpense = "expense"
	SeriesBalance = "balance"
)

// Summary labels, in display order.
const (
	SummaryTotalIncome    = "Total Income"
	SummaryTotalExpenses  = "Total Expenses"
	SummaryNetSavings     = "Net Savings"
	SummaryAverageDaily   = "Average Daily Spending"
	averageDailyPrecision = 2
)

// ReportInput selects a report.
type ReportInput struct {
	OwnerID    string
	ReportType domain.ReportType
	TimeRange  domain.TimeRange
}

// ChartPoint is one bucket of a report chart.
type ChartPoint struct {
	Label  string
	Start  time.Time
	Values map[string]decimal.Decimal
}

// SummaryItem is a headline figure with its change against the previous
// period of equal length.
type SummaryItem struct {
	Label  string
	Value  decimal.Decimal
	Change decimal.Decimal
}

// Report is the chart, category breakdown and summary for one window.
type Report struct {
	ReportType   domain.ReportType
	TimeRange    domain.TimeRange
	Window       domain.Window
	Series       []string
	ChartData    []ChartPoint
	CategoryData []domain.CategoryTotal
	Summary      []SummaryItem
}

// ReportUseCase builds reports from aggregate reads.
type ReportUseCase struct {
	ledgerRepo LedgerRepository
	now        func() time.Time
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(ledgerRepo LedgerRepository) *ReportUseCase {
	return &ReportUseCase{
		ledgerRepo: ledgerRepo,
		now:        time.Now,
	}
}

// WithClock overrides the reference time used to place the window.
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// GetReport builds the report described by input.
func (uc *ReportUseCase) GetReport(ctx context.Context, input ReportInput) (*Report, error) {
	window := input.TimeRange.Window(uc.now())
	previous := window.Previous()

	flow := domain.TransactionTypeExpense
	if input.ReportType == domain.ReportTypeIncome {
		flow = domain.TransactionTypeIncome
	}

	var (
		current, prior []domain.PeriodTotals
		categories     []domain.CategoryTotal
		opening        decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = uc.ledgerRepo.TotalsByPeriod(gctx, input.OwnerID, window.Granularity, window.Start, window.End)
		return err
	})
	g.Go(func() error {
		var err error
		prior, err = uc.ledgerRepo.TotalsByPeriod(gctx, input.OwnerID, previous.Granularity, previous.Start, previous.End)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = uc.ledgerRepo.TotalsByCategory(gctx, input.OwnerID, flow, window.Start, window.End, 0)
		return err
	})
	if input.ReportType == domain.ReportTypeBalance {
		g.Go(func() error {
			var err error
			opening, err = uc.ledgerRepo.SumSignedBefore(gctx, input.OwnerID, window.Start)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Report{
		ReportType:   input.ReportType,
		TimeRange:    input.TimeRange,
		Window:       window,
		Series:       seriesFor(input.ReportType),
		ChartData:    chartData(input.ReportType, window, current, opening),
		CategoryData: categories,
		Summary:      summarize(window, current, prior),
	}, nil
}

func seriesFor(rt domain.ReportType) []string {
	switch rt {
	case domain.ReportTypeIncome:
		return []string{SeriesIncome}
	case domain.ReportTypeCategories:
		return []string{SeriesIncome, SeriesExpense}
	case domain.ReportTypeBalance:
		return []string{SeriesBalance}
	default:
		return []string{SeriesExpense}
	}
}

// chartData lays totals onto every bucket of the window, zero-filling
// empty ones. The balance series is the running net starting from the
// net of everything before the window.
func chartData(rt domain.ReportType, window domain.Window, totals []domain.PeriodTotals, opening decimal.Decimal) []ChartPoint {
	byStart := make(map[int64]domain.PeriodTotals, len(totals))
	for _, t := range totals {
		byStart[t.Period.Unix()] = t
	}

	running := opening
	points := make([]ChartPoint, 0, window.Buckets)
	for _, start := range window.BucketStarts() {
		t := byStart[start.Unix()]
		values := make(map[string]decimal.Decimal, 2)

		switch rt {
		case domain.ReportTypeIncome:
			values[SeriesIncome] = t.Income
		case domain.ReportTypeCategories:
			values[SeriesIncome] = t.Income
			values[SeriesExpense] = t.Expense
		case domain.ReportTypeBalance:
			running = running.Add(t.Net())
			values[SeriesBalance] = running
		default:
			values[SeriesExpense] = t.Expense
		}

		points = append(points, ChartPoint{
			Label:  window.Granularity.Label(start),
			Start:  start,
			Values: values,
		})
	}

	return points
}

func summarize(window domain.Window, current, prior []domain.PeriodTotals) []SummaryItem {
	curIncome, curExpense := sumTotals(current)
	prevIncome, prevExpense := sumTotals(prior)

	curAvg := averagePerDay(curExpense, window.Days())
	prevAvg := averagePerDay(prevExpense, window.Previous().Days())

	curNet := curIncome.Sub(curExpense)
	prevNet := prevIncome.Sub(prevExpense)

	return []SummaryItem{
		{Label: SummaryTotalIncome, Value: curIncome, Change: domain.PercentChange(curIncome, prevIncome)},
		{Label: SummaryTotalExpenses, Value: curExpense, Change: domain.PercentChange(curExpense, prevExpense)},
		{Label: SummaryNetSavings, Value: curNet, Change: domain.PercentChange(curNet, prevNet)},
		{Label: SummaryAverageDaily, Value: curAvg, Change: domain.PercentChange(curAvg, prevAvg)},
	}
}

func sumTotals(totals []domain.PeriodTotals) (income, expense decimal.Decimal) {
	for _, t := range totals {
		income = income.Add(t.Income)
		expense = expense.Add(t.Expense)
	}

	return income, expense
}

func averagePerDay(total decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}

	return total.Div(decimal.NewFromInt(int64(days))).Round(averageDailyPrecision)
}
