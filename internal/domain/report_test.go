package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseReportType(t *testing.T) {
	rt, err := ParseReportType("")
	if err != nil || rt != ReportTypeSpending {
		t.Fatalf("expected spending default, got %s %v", rt, err)
	}
	if _, err := ParseReportType("profit"); !errors.Is(err, ErrInvalidReportType) {
		t.Fatalf("expected ErrInvalidReportType, got %v", err)
	}
}

func TestParseTimeRange(t *testing.T) {
	tr, err := ParseTimeRange("QUARTER")
	if err != nil || tr != TimeRangeQuarter {
		t.Fatalf("expected quarter, got %s %v", tr, err)
	}
	if _, err := ParseTimeRange("decade"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestTimeRange_Window(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		tr      TimeRange
		start   time.Time
		end     time.Time
		gran    Granularity
		buckets int
	}{
		{TimeRangeWeek, date(2024, 3, 9), date(2024, 3, 16), GranularityDay, 7},
		{TimeRangeMonth, date(2024, 2, 15), date(2024, 3, 16), GranularityDay, 30},
		{TimeRangeQuarter, date(2024, 1, 1), date(2024, 4, 1), GranularityMonth, 3},
		{TimeRangeYear, date(2023, 4, 1), date(2024, 4, 1), GranularityMonth, 12},
	}

	for _, tt := range tests {
		t.Run(string(tt.tr), func(t *testing.T) {
			w := tt.tr.Window(now)
			if !w.Start.Equal(tt.start) || !w.End.Equal(tt.end) {
				t.Fatalf("expected [%s, %s), got [%s, %s)", tt.start, tt.end, w.Start, w.End)
			}
			if w.Granularity != tt.gran || w.Buckets != tt.buckets {
				t.Fatalf("expected %s x%d, got %s x%d", tt.gran, tt.buckets, w.Granularity, w.Buckets)
			}
			if got := len(w.BucketStarts()); got != tt.buckets {
				t.Fatalf("expected %d bucket starts, got %d", tt.buckets, got)
			}
		})
	}
}

func TestWindow_Previous(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	week := TimeRangeWeek.Window(now).Previous()
	if !week.Start.Equal(date(2024, 3, 2)) || !week.End.Equal(date(2024, 3, 9)) {
		t.Fatalf("unexpected previous week [%s, %s)", week.Start, week.End)
	}

	quarter := TimeRangeQuarter.Window(now).Previous()
	if !quarter.Start.Equal(date(2023, 10, 1)) || !quarter.End.Equal(date(2024, 1, 1)) {
		t.Fatalf("unexpected previous quarter [%s, %s)", quarter.Start, quarter.End)
	}
}

func TestWindow_Days(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if d := TimeRangeWeek.Window(now).Days(); d != 7 {
		t.Fatalf("expected 7 days, got %d", d)
	}
	// Jan + Feb (leap) + Mar 2024
	if d := TimeRangeQuarter.Window(now).Days(); d != 91 {
		t.Fatalf("expected 91 days, got %d", d)
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		cur, prev string
		want      string
	}{
		{"150", "100", "50"},
		{"50", "100", "-50"},
		{"10", "0", "100"},
		{"0", "0", "0"},
		{"-50", "-100", "50"},
		{"1", "3", "-66.7"},
	}

	for _, tt := range tests {
		got := PercentChange(decimal.RequireFromString(tt.cur), decimal.RequireFromString(tt.prev))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("PercentChange(%s, %s): expected %s, got %s", tt.cur, tt.prev, tt.want, got)
		}
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
