package reports

import (
	"testing"
	"time"
)

func TestResolvePeriodMonth(t *testing.T) {
	period, err := ResolvePeriod(PeriodMonth, 2024, 2)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !period.Start.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", period.Start)
	}
	if !period.End.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected leap-day end, got %v", period.End)
	}
}

func TestResolvePeriodQuarterFromMidQuarterMonth(t *testing.T) {
	period, err := ResolvePeriod(PeriodQuarter, 2024, 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !period.Start.Equal(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected quarter start Apr 1, got %v", period.Start)
	}
	if !period.End.Equal(time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected quarter end Jun 30, got %v", period.End)
	}
}

func TestResolvePeriodYear(t *testing.T) {
	period, err := ResolvePeriod(PeriodYear, 2024, 7)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if period.Start.Month() != time.January || period.End.Month() != time.December {
		t.Fatalf("expected full year, got %v..%v", period.Start, period.End)
	}
	if period.End.Day() != 31 {
		t.Fatalf("expected Dec 31 end, got %v", period.End)
	}
}

func TestResolvePeriodRejectsBadInput(t *testing.T) {
	if _, err := ResolvePeriod(PeriodMonth, 2024, 0); err == nil {
		t.Fatal("expected error for month 0")
	}
	if _, err := ResolvePeriod("decade", 2024, 1); err == nil {
		t.Fatal("expected error for unknown period type")
	}
}

func TestParsePeriodTypeDefaultsToMonth(t *testing.T) {
	pt, err := ParsePeriodType("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if pt != PeriodMonth {
		t.Fatalf("expected month default, got %q", pt)
	}
	if _, err := ParsePeriodType("fortnight"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestPeriodContains(t *testing.T) {
	period, _ := ResolvePeriod(PeriodMonth, 2024, 3)
	if !period.Contains(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected last day inside period")
	}
	if period.Contains(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("did not expect next month inside period")
	}
}

func TestProfitMargin(t *testing.T) {
	if got := ProfitMargin(250, 1000); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if got := ProfitMargin(100, 300); got != 33.3 {
		t.Fatalf("expected one-decimal rounding, got %v", got)
	}
	if got := ProfitMargin(500, 0); got != 0 {
		t.Fatalf("expected 0 on zero income, got %v", got)
	}
	if got := ProfitMargin(-200, 1000); got != -20 {
		t.Fatalf("expected -20, got %v", got)
	}
}
