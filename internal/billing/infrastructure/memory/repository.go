package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	billing "propfolio-cloud/internal/billing/domain"
)

// LeaseRepository is an in-memory repository for leases.
type LeaseRepository struct {
	mu     sync.RWMutex
	leases map[string]billing.Lease
}

// NewLeaseRepository constructs a repository.
func NewLeaseRepository() *LeaseRepository {
	return &LeaseRepository{leases: make(map[string]billing.Lease)}
}

// Put stores a lease.
func (r *LeaseRepository) Put(lease billing.Lease) {
	r.mu.Lock()
	r.leases[lease.ID] = lease
	r.mu.Unlock()
}

// ListActiveCovering returns ACTIVE leases whose interval contains day.
func (r *LeaseRepository) ListActiveCovering(ctx context.Context, tenantID, propertyID string, day time.Time) ([]billing.Lease, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []billing.Lease
	for _, lease := range r.leases {
		if !lease.Active() || !lease.Covers(day) {
			continue
		}
		if tenantID != "" && lease.TenantID != tenantID {
			continue
		}
		if propertyID != "" && lease.PropertyID != propertyID {
			continue
		}
		result = append(result, lease)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetByID returns the lease or nil when absent.
func (r *LeaseRepository) GetByID(ctx context.Context, leaseID string) (*billing.Lease, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	lease, ok := r.leases[leaseID]
	if !ok {
		return nil, nil
	}
	return &lease, nil
}

// ActiveByUnit returns the unit's ACTIVE lease, or nil when vacant.
func (r *LeaseRepository) ActiveByUnit(ctx context.Context, unitID string) (*billing.Lease, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, lease := range r.leases {
		if lease.UnitID == unitID && lease.Active() {
			copied := lease
			return &copied, nil
		}
	}
	return nil, nil
}

// RecurringChargeRepository is an in-memory repository for templates.
type RecurringChargeRepository struct {
	mu        sync.RWMutex
	templates []billing.RecurringCharge
}

// NewRecurringChargeRepository constructs a repository.
func NewRecurringChargeRepository() *RecurringChargeRepository {
	return &RecurringChargeRepository{}
}

// Put stores a template.
func (r *RecurringChargeRepository) Put(tpl billing.RecurringCharge) {
	r.mu.Lock()
	r.templates = append(r.templates, tpl)
	r.mu.Unlock()
}

// ListActiveByLease returns active templates for a lease.
func (r *RecurringChargeRepository) ListActiveByLease(ctx context.Context, leaseID string) ([]billing.RecurringCharge, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []billing.RecurringCharge
	for _, tpl := range r.templates {
		if tpl.LeaseID == leaseID && tpl.IsActive {
			result = append(result, tpl)
		}
	}
	return result, nil
}

type chargeKey struct {
	leaseID     string
	chargeType  billing.ChargeType
	periodStart time.Time
}

// ChargeRepository is an in-memory repository for rent charges enforcing the
// same (lease_id, charge_type, period_start) idempotency key as Postgres.
type ChargeRepository struct {
	mu      sync.RWMutex
	byKey   map[chargeKey]string
	charges map[string]billing.RentCharge
}

// NewChargeRepository constructs a repository.
func NewChargeRepository() *ChargeRepository {
	return &ChargeRepository{
		byKey:   make(map[chargeKey]string),
		charges: make(map[string]billing.RentCharge),
	}
}

// Put stores a charge bypassing the conflict check (test seeding).
func (r *ChargeRepository) Put(charge billing.RentCharge) {
	r.mu.Lock()
	r.charges[charge.ID] = charge
	r.byKey[keyOf(charge)] = charge.ID
	r.mu.Unlock()
}

// All returns every stored charge sorted by id (assertion convenience).
func (r *ChargeRepository) All() []billing.RentCharge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]billing.RentCharge, 0, len(r.charges))
	for _, charge := range r.charges {
		result = append(result, charge)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func keyOf(charge billing.RentCharge) chargeKey {
	return chargeKey{
		leaseID:     charge.LeaseID,
		chargeType:  charge.Type,
		periodStart: charge.PeriodStart.UTC(),
	}
}

// Create inserts a charge; returns false when the idempotency key conflicts.
func (r *ChargeRepository) Create(ctx context.Context, charge *billing.RentCharge) (bool, error) {
	_ = ctx
	if err := billing.ValidCharge(charge); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := keyOf(*charge)
	if _, exists := r.byKey[key]; exists {
		return false, nil
	}
	r.charges[charge.ID] = *charge
	r.byKey[key] = charge.ID
	return true, nil
}

// ExistsForPeriod reports whether a charge of the type exists for the month.
func (r *ChargeRepository) ExistsForPeriod(ctx context.Context, leaseID string, chargeType billing.ChargeType, periodStart time.Time) (bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.byKey[chargeKey{leaseID: leaseID, chargeType: chargeType, periodStart: periodStart.UTC()}]
	return exists, nil
}

// ListOverdueRent returns open RENT charges due strictly before now.
func (r *ChargeRepository) ListOverdueRent(ctx context.Context, tenantID, propertyID string, now time.Time) ([]billing.RentCharge, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []billing.RentCharge
	for _, charge := range r.charges {
		if charge.Type != billing.ChargeTypeRent || !charge.Open() {
			continue
		}
		if !charge.DueDate.Before(now) {
			continue
		}
		if tenantID != "" && charge.TenantID != tenantID {
			continue
		}
		if propertyID != "" && charge.PropertyID != propertyID {
			continue
		}
		result = append(result, charge)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}

// HasLateFeeSince reports whether the lease has a LATE_FEE created on or
// after since.
func (r *ChargeRepository) HasLateFeeSince(ctx context.Context, leaseID string, since time.Time) (bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, charge := range r.charges {
		if charge.LeaseID == leaseID && charge.Type == billing.ChargeTypeLateFee && !charge.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// ListOpenByLease returns UNPAID and PARTIAL charges for a lease.
func (r *ChargeRepository) ListOpenByLease(ctx context.Context, leaseID string) ([]billing.RentCharge, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []billing.RentCharge
	for _, charge := range r.charges {
		if charge.LeaseID == leaseID && charge.Open() {
			result = append(result, charge)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}

// LastPaidByLease returns the most recently due PAID charge, or nil.
func (r *ChargeRepository) LastPaidByLease(ctx context.Context, leaseID string) (*billing.RentCharge, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *billing.RentCharge
	for _, charge := range r.charges {
		if charge.LeaseID != leaseID || charge.Status != billing.ChargeStatusPaid {
			continue
		}
		copied := charge
		if latest == nil || copied.DueDate.After(latest.DueDate) {
			latest = &copied
		}
	}
	return latest, nil
}

// PaymentRepository is an in-memory repository for legacy payments.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments []billing.Payment
}

// NewPaymentRepository constructs a repository.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// Put stores a payment.
func (r *PaymentRepository) Put(payment billing.Payment) {
	r.mu.Lock()
	r.payments = append(r.payments, payment)
	r.mu.Unlock()
}

// ListOpenByLease returns PENDING and OVERDUE payments for a lease.
func (r *PaymentRepository) ListOpenByLease(ctx context.Context, leaseID string) ([]billing.Payment, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []billing.Payment
	for _, payment := range r.payments {
		if payment.LeaseID == leaseID && payment.Open() {
			result = append(result, payment)
		}
	}
	return result, nil
}

// LastCompletedByLease returns the most recent PAID/COMPLETED payment, or nil.
func (r *PaymentRepository) LastCompletedByLease(ctx context.Context, leaseID string) (*billing.Payment, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *billing.Payment
	for _, payment := range r.payments {
		if payment.LeaseID != leaseID || !payment.Completed() {
			continue
		}
		copied := payment
		when := copied.DueDate
		if copied.PaidDate != nil {
			when = *copied.PaidDate
		}
		if latest == nil || when.After(latestWhen(*latest)) {
			latest = &copied
		}
	}
	return latest, nil
}

func latestWhen(p billing.Payment) time.Time {
	if p.PaidDate != nil {
		return *p.PaidDate
	}
	return p.DueDate
}

// LateFeeConfigRepository is an in-memory repository for late fee configs.
type LateFeeConfigRepository struct {
	mu      sync.RWMutex
	configs map[string]billing.LateFeeConfig
}

// NewLateFeeConfigRepository constructs a repository.
func NewLateFeeConfigRepository() *LateFeeConfigRepository {
	return &LateFeeConfigRepository{configs: make(map[string]billing.LateFeeConfig)}
}

// Put stores a config.
func (r *LateFeeConfigRepository) Put(cfg billing.LateFeeConfig) {
	r.mu.Lock()
	r.configs[cfg.PropertyID] = cfg
	r.mu.Unlock()
}

// GetByProperty returns the stored config or nil when none exists.
func (r *LateFeeConfigRepository) GetByProperty(ctx context.Context, propertyID string) (*billing.LateFeeConfig, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[propertyID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

// AgingSnapshotRepository is an in-memory repository for aging snapshots.
type AgingSnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[string]billing.AgingSnapshot
}

// NewAgingSnapshotRepository constructs a repository.
func NewAgingSnapshotRepository() *AgingSnapshotRepository {
	return &AgingSnapshotRepository{snapshots: make(map[string]billing.AgingSnapshot)}
}

// Put stores a snapshot.
func (r *AgingSnapshotRepository) Put(snapshot billing.AgingSnapshot) {
	r.mu.Lock()
	r.snapshots[snapshot.LeaseID] = snapshot
	r.mu.Unlock()
}

// GetByLease returns the snapshot or nil when none exists.
func (r *AgingSnapshotRepository) GetByLease(ctx context.Context, leaseID string) (*billing.AgingSnapshot, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot, ok := r.snapshots[leaseID]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}
