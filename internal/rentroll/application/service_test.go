package application

import (
	"context"
	"log"
	"testing"
	"time"

	billingapp "propfolio-cloud/internal/billing/application"
	billing "propfolio-cloud/internal/billing/domain"
	billingmem "propfolio-cloud/internal/billing/infrastructure/memory"
	portfolio "propfolio-cloud/internal/portfolio/domain"
	portfoliomem "propfolio-cloud/internal/portfolio/infrastructure/memory"
	rentroll "propfolio-cloud/internal/rentroll/domain"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	svc        *Service
	properties *portfoliomem.PropertyRepository
	units      *portfoliomem.UnitRepository
	invites    *portfoliomem.InviteRepository
	leases     *billingmem.LeaseRepository
	charges    *billingmem.ChargeRepository
}

func newFixture(t *testing.T, now time.Time) fixture {
	t.Helper()
	properties := portfoliomem.NewPropertyRepository()
	units := portfoliomem.NewUnitRepository()
	invites := portfoliomem.NewInviteRepository()
	leases := billingmem.NewLeaseRepository()
	charges := billingmem.NewChargeRepository()
	payments := billingmem.NewPaymentRepository()

	aging, err := billingapp.NewAgingService(charges, payments, nil)
	if err != nil {
		t.Fatalf("new aging service: %v", err)
	}
	svc, err := NewService(properties, units, invites, leases, aging, fixedClock{now: now}, log.New(discard{}, "", 0))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return fixture{svc: svc, properties: properties, units: units, invites: invites, leases: leases, charges: charges}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func seedProperty(f fixture) {
	f.properties.Put(portfolio.Property{ID: "prop-1", TenantID: "acme", OwnerID: "owner-1", Name: "Maple Court", Address: "12 Maple St", City: "Springfield", State: "IL", Zip: "62704"})
	f.units.Put(portfolio.Unit{ID: "unit-1", PropertyID: "prop-1", Number: "101", Bedrooms: 2, Bathrooms: 1, SquareFeet: 850, MarketRent: 1500})
	f.units.Put(portfolio.Unit{ID: "unit-2", PropertyID: "prop-1", Number: "102", Bedrooms: 1, Bathrooms: 1, SquareFeet: 600, MarketRent: 1100})
}

func seedOccupiedUnit1(f fixture, now time.Time) {
	end := now.AddDate(1, 0, 0)
	f.leases.Put(billing.Lease{
		ID:          "lease-1",
		TenantID:    "acme",
		PropertyID:  "prop-1",
		UnitID:      "unit-1",
		RenterName:  "Dana Smith",
		RenterEmail: "dana@example.com",
		RenterPhone: "555-0101",
		RentAmount:  1450,
		StartDate:   now.AddDate(-1, 0, 0),
		EndDate:     &end,
		Status:      billing.LeaseStatusActive,
	})
}

func TestForPropertyBuildsOccupiedAndVacantRows(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	seedProperty(f)
	seedOccupiedUnit1(f, now)
	f.charges.Put(billing.RentCharge{
		ID: "chg-1", TenantID: "acme", LeaseID: "lease-1", PropertyID: "prop-1", UnitID: "unit-1",
		Type: billing.ChargeTypeRent, Amount: 1450, DueDate: now.AddDate(0, 0, -40),
		PeriodStart: billing.MonthOf(now.AddDate(0, 0, -40)), Status: billing.ChargeStatusUnpaid, CreatedAt: now.AddDate(0, 0, -40),
	})
	f.invites.Put(portfolio.TenantInvite{ID: "inv-1", UnitID: "unit-2", Email: "new@example.com", Status: portfolio.InviteStatusPending})

	report, err := f.svc.ForProperty(context.Background(), "acme", "prop-1", rentroll.StatusFilterAll)
	if err != nil {
		t.Fatalf("for property: %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report.Rows))
	}

	occupied := report.Rows[0]
	if occupied.UnitNumber != "101" || !occupied.Occupied {
		t.Fatalf("expected unit 101 occupied first, got %+v", occupied)
	}
	if occupied.Tenant == nil || occupied.Tenant.Name != "Dana Smith" {
		t.Fatalf("expected tenant details, got %+v", occupied.Tenant)
	}
	if occupied.LeaseRent != 1450 {
		t.Fatalf("expected lease rent 1450, got %v", occupied.LeaseRent)
	}
	if occupied.CurrentBalance != 1450 {
		t.Fatalf("expected balance 1450, got %v", occupied.CurrentBalance)
	}
	if occupied.Aging.Days30 != 1450 {
		t.Fatalf("expected balance aged into 31-60, got %+v", occupied.Aging)
	}

	vacant := report.Rows[1]
	if vacant.Occupied || vacant.Tenant != nil {
		t.Fatalf("expected vacant row, got %+v", vacant)
	}
	if vacant.CurrentBalance != 0 {
		t.Fatalf("vacant row must carry zero balance, got %v", vacant.CurrentBalance)
	}
	if vacant.PendingInvite != "new@example.com" {
		t.Fatalf("expected pending invite email, got %q", vacant.PendingInvite)
	}
	if vacant.Status() != "PENDING" {
		t.Fatalf("expected PENDING status, got %q", vacant.Status())
	}

	totals := report.Totals
	if totals.TotalUnits != 2 || totals.OccupiedUnits != 1 || totals.VacantUnits != 1 {
		t.Fatalf("unexpected totals %+v", totals)
	}
	if totals.OccupancyRate != 50 {
		t.Fatalf("expected 50%% occupancy, got %v", totals.OccupancyRate)
	}
	if totals.TotalMarketRent != 2600 {
		t.Fatalf("expected market rent 2600, got %v", totals.TotalMarketRent)
	}
	if totals.TotalLeaseRent != 1450 {
		t.Fatalf("expected lease rent 1450, got %v", totals.TotalLeaseRent)
	}
	if totals.TotalBalance != 1450 {
		t.Fatalf("expected total balance 1450, got %v", totals.TotalBalance)
	}
}

func TestForPropertyStatusFilters(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	seedProperty(f)
	seedOccupiedUnit1(f, now)
	f.charges.Put(billing.RentCharge{
		ID: "chg-1", TenantID: "acme", LeaseID: "lease-1", PropertyID: "prop-1", UnitID: "unit-1",
		Type: billing.ChargeTypeRent, Amount: 300, DueDate: now.AddDate(0, 0, -10),
		PeriodStart: billing.MonthOf(now.AddDate(0, 0, -10)), Status: billing.ChargeStatusUnpaid, CreatedAt: now.AddDate(0, 0, -10),
	})

	overdue, err := f.svc.ForProperty(context.Background(), "acme", "prop-1", rentroll.StatusFilterOverdue)
	if err != nil {
		t.Fatalf("overdue filter: %v", err)
	}
	if len(overdue.Rows) != 1 || overdue.Rows[0].UnitID != "unit-1" {
		t.Fatalf("expected only the delinquent unit, got %+v", overdue.Rows)
	}

	current, err := f.svc.ForProperty(context.Background(), "acme", "prop-1", rentroll.StatusFilterCurrent)
	if err != nil {
		t.Fatalf("current filter: %v", err)
	}
	if len(current.Rows) != 0 {
		t.Fatalf("delinquent unit must not match current, got %+v", current.Rows)
	}

	// Totals follow the filtered rows.
	if overdue.Totals.TotalUnits != 1 || overdue.Totals.TotalBalance != 300 {
		t.Fatalf("expected filtered totals, got %+v", overdue.Totals)
	}
}

func TestForPropertyUnknownProperty(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	seedProperty(f)

	if _, err := f.svc.ForProperty(context.Background(), "acme", "prop-404", rentroll.StatusFilterAll); err != ErrPropertyNotFound {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
	if _, err := f.svc.ForProperty(context.Background(), "other-tenant", "prop-1", rentroll.StatusFilterAll); err != ErrPropertyNotFound {
		t.Fatalf("expected tenant mismatch to read as not found, got %v", err)
	}
}

func TestAgingReportBucketsAndSorts(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	seedProperty(f)
	seedOccupiedUnit1(f, now)

	end := now.AddDate(1, 0, 0)
	f.leases.Put(billing.Lease{
		ID: "lease-2", TenantID: "acme", PropertyID: "prop-1", UnitID: "unit-2",
		RenterName: "Lee Wong", RentAmount: 1100,
		StartDate: now.AddDate(-1, 0, 0), EndDate: &end, Status: billing.LeaseStatusActive,
	})
	f.charges.Put(billing.RentCharge{
		ID: "chg-1", TenantID: "acme", LeaseID: "lease-1", PropertyID: "prop-1", UnitID: "unit-1",
		Type: billing.ChargeTypeRent, Amount: 400, DueDate: now.AddDate(0, 0, -40),
		PeriodStart: billing.MonthOf(now.AddDate(0, 0, -40)), Status: billing.ChargeStatusUnpaid, CreatedAt: now.AddDate(0, 0, -40),
	})
	f.charges.Put(billing.RentCharge{
		ID: "chg-2", TenantID: "acme", LeaseID: "lease-2", PropertyID: "prop-1", UnitID: "unit-2",
		Type: billing.ChargeTypeRent, Amount: 900, DueDate: now.AddDate(0, 0, -45),
		PeriodStart: billing.MonthOf(now.AddDate(0, 0, -45)), Status: billing.ChargeStatusUnpaid, CreatedAt: now.AddDate(0, 0, -45),
	})

	report, err := f.svc.Aging(context.Background(), "acme", "", "")
	if err != nil {
		t.Fatalf("aging: %v", err)
	}
	if len(report.Days30) != 2 {
		t.Fatalf("expected both balances in 31-60, got %+v", report)
	}
	if report.Days30[0].Amount != 900 || report.Days30[1].Amount != 400 {
		t.Fatalf("expected descending amounts, got %+v", report.Days30)
	}
	if report.Days30[0].TenantName != "Lee Wong" {
		t.Fatalf("expected tenant detail, got %+v", report.Days30[0])
	}
	if report.Totals.Days30 != 1300 || report.Totals.TotalDue != 1300 {
		t.Fatalf("unexpected totals %+v", report.Totals)
	}
}
