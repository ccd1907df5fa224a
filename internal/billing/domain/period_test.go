package billing

import (
	"testing"
	"time"
)

func TestMonthStartValidation(t *testing.T) {
	monthStart, err := MonthStart(2024, 2)
	if err != nil {
		t.Fatalf("month start: %v", err)
	}
	if !monthStart.Equal(day("2024-02-01")) {
		t.Fatalf("expected 2024-02-01, got %v", monthStart)
	}
	if _, err := MonthStart(2024, 13); err == nil {
		t.Fatal("expected error for month 13")
	}
	if _, err := MonthStart(0, 1); err == nil {
		t.Fatal("expected error for year 0")
	}
}

func TestDueDateForClampsShortMonths(t *testing.T) {
	feb := day("2024-02-01")
	due := DueDateFor(feb, 31)
	if !due.Equal(day("2024-02-29")) {
		t.Fatalf("expected clamp to 2024-02-29, got %v", due)
	}
	jan := day("2024-01-01")
	if got := DueDateFor(jan, 15); !got.Equal(day("2024-01-15")) {
		t.Fatalf("expected 2024-01-15, got %v", got)
	}
}

func TestPeriodKey(t *testing.T) {
	if key := PeriodKey(day("2024-03-01")); key != "2024-03" {
		t.Fatalf("expected 2024-03, got %q", key)
	}
}

func TestParseMonthKey(t *testing.T) {
	monthStart, err := ParseMonthKey("2024-11")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !monthStart.Equal(day("2024-11-01")) {
		t.Fatalf("expected 2024-11-01, got %v", monthStart)
	}
	if _, err := ParseMonthKey("november"); err == nil {
		t.Fatal("expected error for bad key")
	}
}

func TestMonthOf(t *testing.T) {
	at := time.Date(2024, time.July, 19, 13, 45, 0, 0, time.UTC)
	if got := MonthOf(at); !got.Equal(day("2024-07-01")) {
		t.Fatalf("expected 2024-07-01, got %v", got)
	}
}
