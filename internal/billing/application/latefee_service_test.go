package application

import (
	"context"
	"testing"
	"time"

	billing "propfolio-cloud/internal/billing/domain"
	"propfolio-cloud/internal/billing/infrastructure/memory"
)

func newLateFeeService(t *testing.T, clock fixedClock) (*LateFeeService, *memory.ChargeRepository, *memory.LateFeeConfigRepository) {
	t.Helper()
	charges := memory.NewChargeRepository()
	configs := memory.NewLateFeeConfigRepository()
	svc, err := NewLateFeeService(charges, configs, billing.DefaultLateFeeConfig(), clock, testLogger())
	if err != nil {
		t.Fatalf("new late fee service: %v", err)
	}
	return svc, charges, configs
}

func overdueRent(id, leaseID string, amount float64, due time.Time) billing.RentCharge {
	return billing.RentCharge{
		ID:          id,
		TenantID:    "acme",
		LeaseID:     leaseID,
		PropertyID:  "prop-1",
		UnitID:      "unit-1",
		Type:        billing.ChargeTypeRent,
		Amount:      amount,
		DueDate:     due,
		PeriodStart: billing.MonthOf(due),
		Status:      billing.ChargeStatusUnpaid,
		CreatedAt:   due,
	}
}

func TestApplyCreatesFlatFee(t *testing.T) {
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	svc, charges, _ := newLateFeeService(t, fixedClock{now: now})
	charges.Put(overdueRent("chg-1", "lease-1", 1800, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))

	result, err := svc.Apply(context.Background(), ApplyRequest{})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.LateFeesApplied != 1 {
		t.Fatalf("expected 1 fee applied, got %d (skips %+v)", result.LateFeesApplied, result.Skipped)
	}
	if result.TotalFeesGenerated != 50 {
		t.Fatalf("expected 50 in fees, got %v", result.TotalFeesGenerated)
	}
	applied := result.Applied[0]
	if applied.DaysPastDue != 9 {
		t.Fatalf("expected 9 days past due, got %d", applied.DaysPastDue)
	}
	if applied.UnpaidAmount != 1800 {
		t.Fatalf("expected unpaid 1800, got %v", applied.UnpaidAmount)
	}

	var fee *billing.RentCharge
	for _, charge := range charges.All() {
		if charge.Type == billing.ChargeTypeLateFee {
			c := charge
			fee = &c
		}
	}
	if fee == nil {
		t.Fatal("expected a LATE_FEE charge in the repository")
	}
	if fee.Amount != 50 || fee.LeaseID != "lease-1" {
		t.Fatalf("unexpected fee charge %+v", fee)
	}
	if !fee.DueDate.Equal(now) {
		t.Fatalf("expected fee due immediately, got %v", fee.DueDate)
	}
}

func TestApplySecondRunSkipsSameMonth(t *testing.T) {
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	svc, charges, _ := newLateFeeService(t, fixedClock{now: now})
	charges.Put(overdueRent("chg-1", "lease-1", 1200, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))

	if _, err := svc.Apply(context.Background(), ApplyRequest{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Apply(context.Background(), ApplyRequest{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.LateFeesApplied != 0 {
		t.Fatalf("expected no fees on second run, got %d", second.LateFeesApplied)
	}
	if len(second.Skipped) != 1 || second.Skipped[0].Reason != skipReasonAlreadyApplied {
		t.Fatalf("expected already-applied skip, got %+v", second.Skipped)
	}
}

func TestApplyOneFeePerLeasePerMonth(t *testing.T) {
	now := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	svc, charges, _ := newLateFeeService(t, fixedClock{now: now})
	charges.Put(overdueRent("chg-1", "lease-1", 1000, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)))
	charges.Put(overdueRent("chg-2", "lease-1", 1000, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))

	result, err := svc.Apply(context.Background(), ApplyRequest{})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.ChargesProcessed != 2 {
		t.Fatalf("expected 2 charges processed, got %d", result.ChargesProcessed)
	}
	if result.LateFeesApplied != 1 {
		t.Fatalf("expected a single fee for the lease, got %d", result.LateFeesApplied)
	}
	if result.LateFeesSkipped != 1 || result.Skipped[0].Reason != skipReasonAlreadyApplied {
		t.Fatalf("expected second charge skipped as already applied, got %+v", result.Skipped)
	}
}

func TestApplyScopesByTenant(t *testing.T) {
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	svc, charges, _ := newLateFeeService(t, fixedClock{now: now})
	charges.Put(overdueRent("chg-1", "lease-1", 1000, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	foreign := overdueRent("chg-2", "lease-2", 1000, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	foreign.TenantID = "globex"
	charges.Put(foreign)

	result, err := svc.Apply(context.Background(), ApplyRequest{TenantID: "acme"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.ChargesProcessed != 1 {
		t.Fatalf("expected the scoped tenant's charge only, got %d processed", result.ChargesProcessed)
	}
	for _, charge := range charges.All() {
		if charge.Type == billing.ChargeTypeLateFee && charge.TenantID != "acme" {
			t.Fatalf("fee created for foreign tenant %s", charge.TenantID)
		}
	}

	unscoped, err := svc.Apply(context.Background(), ApplyRequest{})
	if err != nil {
		t.Fatalf("unscoped apply: %v", err)
	}
	if unscoped.ChargesProcessed != 2 {
		t.Fatalf("expected unscoped run to cover both tenants, got %d processed", unscoped.ChargesProcessed)
	}
	if unscoped.LateFeesApplied != 1 {
		t.Fatalf("expected the remaining tenant's fee only, got %d", unscoped.LateFeesApplied)
	}
}

func TestApplyGracePeriodBoundary(t *testing.T) {
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		due     time.Time
		applied int
	}{
		{"exactly at grace limit", now.AddDate(0, 0, -5), 0},
		{"one day past grace", now.AddDate(0, 0, -6), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, charges, _ := newLateFeeService(t, fixedClock{now: now})
			charges.Put(overdueRent("chg-1", "lease-1", 1000, tc.due))

			result, err := svc.Apply(context.Background(), ApplyRequest{})
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if result.LateFeesApplied != tc.applied {
				t.Fatalf("expected %d fees, got %d (skips %+v)", tc.applied, result.LateFeesApplied, result.Skipped)
			}
			if tc.applied == 0 && result.Skipped[0].Reason != skipReasonGracePeriod {
				t.Fatalf("expected grace period skip, got %q", result.Skipped[0].Reason)
			}
		})
	}
}

func TestApplyRespectsDisabledConfig(t *testing.T) {
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	svc, charges, configs := newLateFeeService(t, fixedClock{now: now})
	charges.Put(overdueRent("chg-1", "lease-1", 1000, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	configs.Put(billing.LateFeeConfig{PropertyID: "prop-1", GracePeriodDays: 5, FeeType: billing.FeeTypeFlat, FeeAmount: 50, IsActive: false})

	result, err := svc.Apply(context.Background(), ApplyRequest{})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.LateFeesApplied != 0 {
		t.Fatalf("expected no fees, got %d", result.LateFeesApplied)
	}
	if result.Skipped[0].Reason != skipReasonDisabled {
		t.Fatalf("expected disabled skip, got %q", result.Skipped[0].Reason)
	}
}

func TestApplyPercentageFeeOnOutstanding(t *testing.T) {
	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	svc, charges, configs := newLateFeeService(t, fixedClock{now: now})
	charge := overdueRent("chg-1", "lease-1", 2000, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	charge.PaidAmount = 500
	charge.Status = billing.ChargeStatusPartial
	charges.Put(charge)
	cap := 1000.0
	configs.Put(billing.LateFeeConfig{PropertyID: "prop-1", GracePeriodDays: 5, FeeType: billing.FeeTypePercentage, FeeAmount: 10, MaxFeeAmount: &cap, IsActive: true})

	result, err := svc.Apply(context.Background(), ApplyRequest{})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.LateFeesApplied != 1 {
		t.Fatalf("expected 1 fee, got %d (skips %+v)", result.LateFeesApplied, result.Skipped)
	}
	if result.Applied[0].FeeAmount != 150 {
		t.Fatalf("expected 10%% of the 1500 outstanding, got %v", result.Applied[0].FeeAmount)
	}
}
