package billing

import (
	"context"
	"time"
)

// LeaseRepository loads leases for billing runs and reports.
type LeaseRepository interface {
	// ListActiveCovering returns ACTIVE leases whose interval contains day,
	// optionally scoped to one tenant and one property. Empty tenantID means
	// all tenants (scheduler runs), empty propertyID all properties.
	ListActiveCovering(ctx context.Context, tenantID, propertyID string, day time.Time) ([]Lease, error)
	// GetByID returns the lease or nil when absent.
	GetByID(ctx context.Context, leaseID string) (*Lease, error)
	// ActiveByUnit returns the unit's ACTIVE lease, or nil when vacant.
	ActiveByUnit(ctx context.Context, unitID string) (*Lease, error)
}

// RecurringChargeRepository loads charge templates.
type RecurringChargeRepository interface {
	// ListActiveByLease returns active templates for a lease.
	ListActiveByLease(ctx context.Context, leaseID string) ([]RecurringCharge, error)
}

// ChargeRepository reads and writes rent charge rows.
type ChargeRepository interface {
	// Create inserts a charge. It returns false with a nil error when the
	// idempotency key (lease_id, type, period_start) already exists.
	Create(ctx context.Context, charge *RentCharge) (bool, error)
	// ExistsForPeriod reports whether a charge of the given type exists for
	// the lease within the billing month starting at periodStart.
	ExistsForPeriod(ctx context.Context, leaseID string, chargeType ChargeType, periodStart time.Time) (bool, error)
	// ListOverdueRent returns RENT charges UNPAID or PARTIAL with a due date
	// strictly before now, optionally scoped to one tenant and one property.
	// Empty tenantID means all tenants.
	ListOverdueRent(ctx context.Context, tenantID, propertyID string, now time.Time) ([]RentCharge, error)
	// HasLateFeeSince reports whether the lease has any LATE_FEE charge
	// created on or after the given instant.
	HasLateFeeSince(ctx context.Context, leaseID string, since time.Time) (bool, error)
	// ListOpenByLease returns UNPAID and PARTIAL charges for a lease.
	ListOpenByLease(ctx context.Context, leaseID string) ([]RentCharge, error)
	// LastPaidByLease returns the most recently due PAID charge, or nil.
	LastPaidByLease(ctx context.Context, leaseID string) (*RentCharge, error)
}

// PaymentRepository reads legacy payment rows.
type PaymentRepository interface {
	// ListOpenByLease returns PENDING and OVERDUE payments for a lease.
	ListOpenByLease(ctx context.Context, leaseID string) ([]Payment, error)
	// LastCompletedByLease returns the most recent PAID/COMPLETED payment,
	// or nil.
	LastCompletedByLease(ctx context.Context, leaseID string) (*Payment, error)
}

// LateFeeConfigRepository loads per-property late fee policies.
type LateFeeConfigRepository interface {
	// GetByProperty returns the stored config or nil when none exists.
	GetByProperty(ctx context.Context, propertyID string) (*LateFeeConfig, error)
}

// AgingSnapshotRepository loads precomputed aging rows.
type AgingSnapshotRepository interface {
	// GetByLease returns the snapshot or nil when none exists.
	GetByLease(ctx context.Context, leaseID string) (*AgingSnapshot, error)
}
