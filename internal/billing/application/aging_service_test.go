package application

import (
	"context"
	"testing"
	"time"

	billing "propfolio-cloud/internal/billing/domain"
	"propfolio-cloud/internal/billing/infrastructure/memory"
)

func newAgingService(t *testing.T, snapshots *memory.AgingSnapshotRepository) (*AgingService, *memory.ChargeRepository, *memory.PaymentRepository) {
	t.Helper()
	charges := memory.NewChargeRepository()
	payments := memory.NewPaymentRepository()
	var snaps billing.AgingSnapshotRepository
	if snapshots != nil {
		snaps = snapshots
	}
	svc, err := NewAgingService(charges, payments, snaps)
	if err != nil {
		t.Fatalf("new aging service: %v", err)
	}
	return svc, charges, payments
}

func TestForLeaseUsesSnapshotVerbatim(t *testing.T) {
	snapshots := memory.NewAgingSnapshotRepository()
	snapshots.Put(billing.AgingSnapshot{LeaseID: "lease-1", Current: 100, Days30: 200, Days90Plus: 50, TotalDue: 350})
	svc, charges, _ := newAgingService(t, snapshots)

	// Live charges must not override a stored snapshot.
	charges.Put(overdueRent("chg-1", "lease-1", 9999, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))

	aging, err := svc.ForLease(context.Background(), "lease-1", time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("for lease: %v", err)
	}
	if aging.TotalDue != 350 || aging.Days30 != 200 {
		t.Fatalf("expected snapshot values, got %+v", aging)
	}
}

func TestForLeaseAgesOpenCharges(t *testing.T) {
	svc, charges, payments := newAgingService(t, nil)
	ref := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	charges.Put(overdueRent("chg-1", "lease-1", 1000, ref.AddDate(0, 0, -10)))
	charges.Put(overdueRent("chg-2", "lease-1", 500, ref.AddDate(0, 0, -40)))

	// An open legacy payment must be ignored while charge rows exist.
	payments.Put(billing.Payment{ID: "pay-1", LeaseID: "lease-1", Amount: 777, DueDate: ref.AddDate(0, 0, -70), Status: billing.PaymentStatusPending})

	aging, err := svc.ForLease(context.Background(), "lease-1", ref)
	if err != nil {
		t.Fatalf("for lease: %v", err)
	}
	if aging.Current != 1000 {
		t.Fatalf("expected 1000 current, got %v", aging.Current)
	}
	if aging.Days30 != 500 {
		t.Fatalf("expected 500 in 31-60, got %v", aging.Days30)
	}
	if aging.Days60 != 0 {
		t.Fatalf("legacy payment leaked into aging: %+v", aging)
	}
	if aging.TotalDue != 1500 {
		t.Fatalf("expected total 1500, got %v", aging.TotalDue)
	}
}

func TestForLeaseFallsBackToPayments(t *testing.T) {
	svc, _, payments := newAgingService(t, nil)
	ref := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	payments.Put(billing.Payment{ID: "pay-1", LeaseID: "lease-1", Amount: 650, DueDate: ref.AddDate(0, 0, -45), Status: billing.PaymentStatusOverdue})

	aging, err := svc.ForLease(context.Background(), "lease-1", ref)
	if err != nil {
		t.Fatalf("for lease: %v", err)
	}
	if aging.Days30 != 650 || aging.TotalDue != 650 {
		t.Fatalf("expected legacy payment aged into 31-60, got %+v", aging)
	}
}

func TestLastPaymentPrefersChargeHistory(t *testing.T) {
	svc, charges, payments := newAgingService(t, nil)

	paid := overdueRent("chg-1", "lease-1", 1200, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC))
	paid.PaidAmount = 1200
	paid.Status = billing.ChargeStatusPaid
	charges.Put(paid)

	legacyPaid := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
	payments.Put(billing.Payment{ID: "pay-1", LeaseID: "lease-1", Amount: 999, DueDate: legacyPaid, PaidDate: &legacyPaid, Status: billing.PaymentStatusCompleted})

	when, amount, err := svc.LastPayment(context.Background(), "lease-1")
	if err != nil {
		t.Fatalf("last payment: %v", err)
	}
	if when == nil || !when.Equal(paid.DueDate) {
		t.Fatalf("expected charge due date, got %v", when)
	}
	if amount != 1200 {
		t.Fatalf("expected 1200, got %v", amount)
	}
}

func TestLastPaymentLegacyFallback(t *testing.T) {
	svc, _, payments := newAgingService(t, nil)

	paidDate := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
	payments.Put(billing.Payment{ID: "pay-1", LeaseID: "lease-1", Amount: 800, DueDate: paidDate.AddDate(0, 0, -2), PaidDate: &paidDate, Status: billing.PaymentStatusCompleted})

	when, amount, err := svc.LastPayment(context.Background(), "lease-1")
	if err != nil {
		t.Fatalf("last payment: %v", err)
	}
	if when == nil || !when.Equal(paidDate) {
		t.Fatalf("expected paid date, got %v", when)
	}
	if amount != 800 {
		t.Fatalf("expected 800, got %v", amount)
	}

	none, amount, err := svc.LastPayment(context.Background(), "lease-2")
	if err != nil {
		t.Fatalf("last payment: %v", err)
	}
	if none != nil || amount != 0 {
		t.Fatalf("expected no payment history, got %v %v", none, amount)
	}
}
