package reports

import (
	"errors"
	"fmt"
	"time"
)

// PeriodType selects the reporting window anchored at (year, month).
type PeriodType string

const (
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodYear    PeriodType = "year"
)

// ErrInvalidPeriod is returned for an unknown period type or anchor.
var ErrInvalidPeriod = errors.New("invalid report period")

// Period is an inclusive date window in UTC.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether day falls inside the window.
func (p Period) Contains(day time.Time) bool {
	return !day.Before(p.Start) && !day.After(p.End)
}

// Label renders the window for report headers.
func (p Period) Label() string {
	return p.Start.Format("2006-01-02") + " to " + p.End.Format("2006-01-02")
}

// ResolvePeriod computes the window for a period type. Month gives the
// anchor month, quarter the 3-month block containing it, year the whole
// calendar year.
func ResolvePeriod(periodType PeriodType, year, month int) (Period, error) {
	if year < 1 || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: year=%d month=%d", ErrInvalidPeriod, year, month)
	}
	switch periodType {
	case PeriodMonth:
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case PeriodQuarter:
		quarterStart := ((month - 1) / 3 * 3) + 1
		start := time.Date(year, time.Month(quarterStart), 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, End: start.AddDate(0, 3, -1)}, nil
	case PeriodYear:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, End: time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)}, nil
	default:
		return Period{}, fmt.Errorf("%w: type=%q", ErrInvalidPeriod, periodType)
	}
}

// ParsePeriodType validates a period query value. Empty means month.
func ParsePeriodType(raw string) (PeriodType, error) {
	switch PeriodType(raw) {
	case "", PeriodMonth:
		return PeriodMonth, nil
	case PeriodQuarter:
		return PeriodQuarter, nil
	case PeriodYear:
		return PeriodYear, nil
	default:
		return "", fmt.Errorf("%w: type=%q", ErrInvalidPeriod, raw)
	}
}

// MonthWindow gives the single calendar month starting at monthStart.
// Trend queries walk backwards one of these at a time.
func MonthWindow(monthStart time.Time) Period {
	start := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}
