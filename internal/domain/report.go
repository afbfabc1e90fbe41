package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReportType selects which series a report carries.
type ReportType string

const (
	ReportTypeSpending   ReportType = "spending"
	ReportTypeIncome     ReportType = "income"
	ReportTypeCategories ReportType = "categories"
	ReportTypeBalance    ReportType = "balance"
)

// ParseReportType defaults to spending when s is empty.
func ParseReportType(s string) (ReportType, error) {
	if s == "" {
		return ReportTypeSpending, nil
	}

	switch rt := ReportType(strings.ToLower(s)); rt {
	case ReportTypeSpending, ReportTypeIncome, ReportTypeCategories, ReportTypeBalance:
		return rt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReportType, s)
	}
}

// TimeRange is the reporting window ending now.
type TimeRange string

const (
	TimeRangeWeek    TimeRange = "week"
	TimeRangeMonth   TimeRange = "month"
	TimeRangeQuarter TimeRange = "quarter"
	TimeRangeYear    TimeRange = "year"
)

// ParseTimeRange defaults to month when s is empty.
func ParseTimeRange(s string) (TimeRange, error) {
	if s == "" {
		return TimeRangeMonth, nil
	}

	switch tr := TimeRange(strings.ToLower(s)); tr {
	case TimeRangeWeek, TimeRangeMonth, TimeRangeQuarter, TimeRangeYear:
		return tr, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
	}
}

// Granularity is the bucket size of a report series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// Label formats a bucket start for display.
func (g Granularity) Label(t time.Time) string {
	if g == GranularityMonth {
		return t.Format("2006-01")
	}

	return t.Format("2006-01-02")
}

// Window is a half-open [Start, End) interval split into equal buckets.
// All times are UTC.
type Window struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
	Buckets     int
}

// Window returns the interval covered by r at now. Week and month are the
// last 7 and 30 days including today, bucketed daily. Quarter and year are
// the last 3 and 12 calendar months including the current one, bucketed
// monthly.
func (r TimeRange) Window(now time.Time) Window {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch r {
	case TimeRangeWeek:
		return dailyWindow(today, 7)
	case TimeRangeQuarter:
		return monthlyWindow(thisMonth, 3)
	case TimeRangeYear:
		return monthlyWindow(thisMonth, 12)
	default:
		return dailyWindow(today, 30)
	}
}

func dailyWindow(today time.Time, days int) Window {
	return Window{
		Start:       today.AddDate(0, 0, -(days - 1)),
		End:         today.AddDate(0, 0, 1),
		Granularity: GranularityDay,
		Buckets:     days,
	}
}

func monthlyWindow(thisMonth time.Time, months int) Window {
	return Window{
		Start:       thisMonth.AddDate(0, -(months - 1), 0),
		End:         thisMonth.AddDate(0, 1, 0),
		Granularity: GranularityMonth,
		Buckets:     months,
	}
}

// Previous is the window of the same length immediately before w.
func (w Window) Previous() Window {
	prev := w
	prev.End = w.Start
	if w.Granularity == GranularityMonth {
		prev.Start = w.Start.AddDate(0, -w.Buckets, 0)
	} else {
		prev.Start = w.Start.AddDate(0, 0, -w.Buckets)
	}

	return prev
}

// BucketStarts lists the start of every bucket in order.
func (w Window) BucketStarts() []time.Time {
	starts := make([]time.Time, 0, w.Buckets)
	for i := 0; i < w.Buckets; i++ {
		if w.Granularity == GranularityMonth {
			starts = append(starts, w.Start.AddDate(0, i, 0))
		} else {
			starts = append(starts, w.Start.AddDate(0, 0, i))
		}
	}

	return starts
}

// Days is the number of calendar days covered by w.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// PeriodTotals is the income and expense recorded in one bucket.
type PeriodTotals struct {
	Period  time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net is income minus expense.
func (p PeriodTotals) Net() decimal.Decimal {
	return p.Income.Sub(p.Expense)
}

// CategoryTotal is the summed magnitude of one category's transactions.
type CategoryTotal struct {
	CategoryID string
	Name       string
	Color      string
	Total      decimal.Decimal
}

// PercentChange compares current with previous as a percentage of
// |previous|, rounded to one decimal place. A zero previous value yields
// 100, or 0 when current is zero as well.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}

	return current.Sub(previous).Div(previous.Abs()).Mul(decimal.NewFromInt(100)).Round(1)
}
