package billing

import (
	"fmt"
	"time"
)

// MonthStart returns the first day of (year, month) in UTC.
func MonthStart(year, month int) (time.Time, error) {
	if year <= 0 || month < 1 || month > 12 {
		return time.Time{}, ErrInvalidPeriod
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthOf truncates a timestamp to the first day of its month in UTC.
func MonthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodKey formats a month start as YYYY-MM for responses and logs.
func PeriodKey(monthStart time.Time) string {
	return monthStart.Format("2006-01")
}

// DueDateFor places a due day within the month, clamping days past the end
// of a short month to its last day (a day-31 template dues on Feb 28/29).
func DueDateFor(monthStart time.Time, dayOfMonth int) time.Time {
	if dayOfMonth < 1 {
		dayOfMonth = 1
	}
	lastDay := monthStart.AddDate(0, 1, -1).Day()
	if dayOfMonth > lastDay {
		dayOfMonth = lastDay
	}
	return time.Date(monthStart.Year(), monthStart.Month(), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// ParseMonthKey parses YYYY-MM into a month start.
func ParseMonthKey(value string) (time.Time, error) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("billing: month must be YYYY-MM: %w", ErrInvalidPeriod)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}
