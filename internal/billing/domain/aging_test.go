package billing

import (
	"testing"
	"time"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeAgingBucketBoundaries(t *testing.T) {
	now := day("2024-06-30")
	cases := []struct {
		name    string
		daysAgo int
		want    func(a Aging) float64
	}{
		{"due 30 days ago is current", 30, func(a Aging) float64 { return a.Current }},
		{"due 31 days ago is days30", 31, func(a Aging) float64 { return a.Days30 }},
		{"due 60 days ago is days30", 60, func(a Aging) float64 { return a.Days30 }},
		{"due 61 days ago is days60", 61, func(a Aging) float64 { return a.Days60 }},
		{"due 90 days ago is days60", 90, func(a Aging) float64 { return a.Days60 }},
		{"due 91 days ago is days90plus", 91, func(a Aging) float64 { return a.Days90Plus }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			aging := ComputeAging(now, []Obligation{{Amount: 100, DueDate: now.AddDate(0, 0, -tc.daysAgo)}})
			if got := tc.want(aging); got != 100 {
				t.Fatalf("expected 100 in bucket, got %v (aging=%+v)", got, aging)
			}
			if aging.TotalDue != 100 {
				t.Fatalf("expected total 100, got %v", aging.TotalDue)
			}
		})
	}
}

func TestComputeAgingNotYetDueIsCurrent(t *testing.T) {
	now := day("2024-06-01")
	aging := ComputeAging(now, []Obligation{{Amount: 50, DueDate: now.AddDate(0, 0, 10)}})
	if aging.Current != 50 {
		t.Fatalf("expected future due date in current bucket, got %+v", aging)
	}
}

func TestSelectObligationsPrefersCharges(t *testing.T) {
	charges := []RentCharge{
		{Amount: 200, DueDate: day("2024-05-01"), Status: ChargeStatusUnpaid},
	}
	payments := []Payment{
		{Amount: 999, DueDate: day("2023-01-01"), Status: PaymentStatusPending},
	}

	selected := SelectObligations(charges, payments)
	if len(selected) != 1 || selected[0].Amount != 200 {
		t.Fatalf("expected charge obligations only, got %+v", selected)
	}

	selected = SelectObligations(nil, payments)
	if len(selected) != 1 || selected[0].Amount != 999 {
		t.Fatalf("expected payment fallback, got %+v", selected)
	}

	// Stale open payments are ignored as soon as a single open charge exists.
	selected = SelectObligations(charges, payments)
	for _, o := range selected {
		if o.Amount == 999 {
			t.Fatalf("legacy payment leaked into charge-derived aging: %+v", selected)
		}
	}
}

func TestObligationsFromChargesUsesOutstanding(t *testing.T) {
	charges := []RentCharge{
		{Amount: 1000, PaidAmount: 400, DueDate: day("2024-05-01"), Status: ChargeStatusPartial},
	}
	obligations := ObligationsFromCharges(charges)
	if len(obligations) != 1 || obligations[0].Amount != 600 {
		t.Fatalf("expected outstanding 600, got %+v", obligations)
	}
}

func TestAgingAdd(t *testing.T) {
	var total Aging
	total.Add(Aging{Current: 1, Days30: 2, Days60: 3, Days90Plus: 4, TotalDue: 10})
	total.Add(Aging{Current: 10, TotalDue: 10})
	if total.Current != 11 || total.Days30 != 2 || total.TotalDue != 20 {
		t.Fatalf("unexpected totals: %+v", total)
	}
}
