package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	billing "propfolio-cloud/internal/billing/domain"
)

const leaseColumns = `
id, tenant_id, property_id, unit_id, renter_user_id, renter_name, renter_email,
renter_phone, rent_amount, deposit, start_date, end_date, status`

// LeaseRepository is a Postgres implementation for leases.
type LeaseRepository struct {
	db *sql.DB
}

// NewLeaseRepository constructs a repository.
func NewLeaseRepository(db *sql.DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

// ListActiveCovering returns ACTIVE leases whose interval contains day.
func (r *LeaseRepository) ListActiveCovering(ctx context.Context, tenantID, propertyID string, day time.Time) ([]billing.Lease, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("lease repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+leaseColumns+`
FROM leases
WHERE status = $1
	AND start_date <= $2
	AND (end_date IS NULL OR end_date >= $2)
	AND ($3 = '' OR tenant_id = $3)
	AND ($4 = '' OR property_id = $4)
ORDER BY id ASC`, billing.LeaseStatusActive, day.UTC(), tenantID, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeases(rows)
}

// GetByID returns the lease or nil when absent.
func (r *LeaseRepository) GetByID(ctx context.Context, leaseID string) (*billing.Lease, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("lease repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+leaseColumns+`
FROM leases
WHERE id = $1`, leaseID)
	return scanLease(row)
}

// ActiveByUnit returns the unit's ACTIVE lease, or nil when vacant.
func (r *LeaseRepository) ActiveByUnit(ctx context.Context, unitID string) (*billing.Lease, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("lease repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+leaseColumns+`
FROM leases
WHERE unit_id = $1 AND status = $2
ORDER BY start_date DESC
LIMIT 1`, unitID, billing.LeaseStatusActive)
	return scanLease(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLease(row rowScanner) (*billing.Lease, error) {
	var lease billing.Lease
	var endDate sql.NullTime
	err := row.Scan(
		&lease.ID,
		&lease.TenantID,
		&lease.PropertyID,
		&lease.UnitID,
		&lease.RenterUserID,
		&lease.RenterName,
		&lease.RenterEmail,
		&lease.RenterPhone,
		&lease.RentAmount,
		&lease.Deposit,
		&lease.StartDate,
		&endDate,
		&lease.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	lease.StartDate = lease.StartDate.UTC()
	if endDate.Valid {
		t := endDate.Time.UTC()
		lease.EndDate = &t
	}
	return &lease, nil
}

func scanLeases(rows *sql.Rows) ([]billing.Lease, error) {
	var result []billing.Lease
	for rows.Next() {
		lease, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *lease)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// RecurringChargeRepository is a Postgres implementation for templates.
type RecurringChargeRepository struct {
	db *sql.DB
}

// NewRecurringChargeRepository constructs a repository.
func NewRecurringChargeRepository(db *sql.DB) *RecurringChargeRepository {
	return &RecurringChargeRepository{db: db}
}

// ListActiveByLease returns active templates for a lease.
func (r *RecurringChargeRepository) ListActiveByLease(ctx context.Context, leaseID string) ([]billing.RecurringCharge, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("recurring repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, lease_id, charge_type, amount, day_of_month, is_active
FROM recurring_charges
WHERE lease_id = $1 AND is_active = TRUE
ORDER BY charge_type ASC`, leaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []billing.RecurringCharge
	for rows.Next() {
		var tpl billing.RecurringCharge
		if err := rows.Scan(&tpl.ID, &tpl.LeaseID, &tpl.Type, &tpl.Amount, &tpl.DayOfMonth, &tpl.IsActive); err != nil {
			return nil, err
		}
		result = append(result, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

const chargeColumns = `
id, tenant_id, lease_id, property_id, unit_id, charge_type, amount, paid_amount,
due_date, period_start, status, created_at`

// ChargeRepository is a Postgres implementation for rent charges. Inserts
// rely on the UNIQUE (lease_id, charge_type, period_start) constraint so
// concurrent generation runs cannot create duplicates.
type ChargeRepository struct {
	db *sql.DB
}

// NewChargeRepository constructs a repository.
func NewChargeRepository(db *sql.DB) *ChargeRepository {
	return &ChargeRepository{db: db}
}

// Create inserts a charge; returns false when the idempotency key conflicts.
func (r *ChargeRepository) Create(ctx context.Context, charge *billing.RentCharge) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("charge repo: nil db")
	}
	if err := billing.ValidCharge(charge); err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx, `
INSERT INTO rent_charges (
	id, tenant_id, lease_id, property_id, unit_id, charge_type, amount,
	paid_amount, due_date, period_start, status, created_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
)
ON CONFLICT (lease_id, charge_type, period_start) DO NOTHING`,
		charge.ID, charge.TenantID, charge.LeaseID, charge.PropertyID, charge.UnitID,
		charge.Type, charge.Amount, charge.PaidAmount, charge.DueDate.UTC(),
		charge.PeriodStart.UTC(), charge.Status, charge.CreatedAt.UTC())
	if err != nil {
		return false, err
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted > 0, nil
}

// ExistsForPeriod reports whether a charge of the type exists in the billing
// month starting at periodStart.
func (r *ChargeRepository) ExistsForPeriod(ctx context.Context, leaseID string, chargeType billing.ChargeType, periodStart time.Time) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("charge repo: nil db")
	}
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (
	SELECT 1 FROM rent_charges
	WHERE lease_id = $1 AND charge_type = $2 AND period_start = $3
)`, leaseID, chargeType, periodStart.UTC()).Scan(&exists)
	return exists, err
}

// ListOverdueRent returns open RENT charges due strictly before now.
func (r *ChargeRepository) ListOverdueRent(ctx context.Context, tenantID, propertyID string, now time.Time) ([]billing.RentCharge, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("charge repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+chargeColumns+`
FROM rent_charges
WHERE charge_type = $1
	AND status IN ($2, $3)
	AND due_date < $4
	AND ($5 = '' OR tenant_id = $5)
	AND ($6 = '' OR property_id = $6)
ORDER BY due_date ASC`, billing.ChargeTypeRent, billing.ChargeStatusUnpaid, billing.ChargeStatusPartial, now.UTC(), tenantID, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCharges(rows)
}

// HasLateFeeSince reports whether the lease has a LATE_FEE created on or
// after the given instant.
func (r *ChargeRepository) HasLateFeeSince(ctx context.Context, leaseID string, since time.Time) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("charge repo: nil db")
	}
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (
	SELECT 1 FROM rent_charges
	WHERE lease_id = $1 AND charge_type = $2 AND created_at >= $3
)`, leaseID, billing.ChargeTypeLateFee, since.UTC()).Scan(&exists)
	return exists, err
}

// ListOpenByLease returns UNPAID and PARTIAL charges for a lease.
func (r *ChargeRepository) ListOpenByLease(ctx context.Context, leaseID string) ([]billing.RentCharge, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("charge repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+chargeColumns+`
FROM rent_charges
WHERE lease_id = $1 AND status IN ($2, $3)
ORDER BY due_date ASC`, leaseID, billing.ChargeStatusUnpaid, billing.ChargeStatusPartial)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCharges(rows)
}

// LastPaidByLease returns the most recently due PAID charge, or nil.
func (r *ChargeRepository) LastPaidByLease(ctx context.Context, leaseID string) (*billing.RentCharge, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("charge repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+chargeColumns+`
FROM rent_charges
WHERE lease_id = $1 AND status = $2
ORDER BY due_date DESC
LIMIT 1`, leaseID, billing.ChargeStatusPaid)
	return scanCharge(row)
}

func scanCharge(row rowScanner) (*billing.RentCharge, error) {
	var c billing.RentCharge
	err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.LeaseID,
		&c.PropertyID,
		&c.UnitID,
		&c.Type,
		&c.Amount,
		&c.PaidAmount,
		&c.DueDate,
		&c.PeriodStart,
		&c.Status,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.DueDate = c.DueDate.UTC()
	c.PeriodStart = c.PeriodStart.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func scanCharges(rows *sql.Rows) ([]billing.RentCharge, error) {
	var result []billing.RentCharge
	for rows.Next() {
		charge, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *charge)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// PaymentRepository is a Postgres implementation for legacy payments.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository constructs a repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListOpenByLease returns PENDING and OVERDUE payments for a lease.
func (r *PaymentRepository) ListOpenByLease(ctx context.Context, leaseID string) ([]billing.Payment, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("payment repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, tenant_id, lease_id, amount, due_date, paid_date, status
FROM payments
WHERE lease_id = $1 AND status IN ($2, $3)
ORDER BY due_date ASC`, leaseID, billing.PaymentStatusPending, billing.PaymentStatusOverdue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []billing.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *payment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LastCompletedByLease returns the most recent PAID/COMPLETED payment, or nil.
func (r *PaymentRepository) LastCompletedByLease(ctx context.Context, leaseID string) (*billing.Payment, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("payment repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, tenant_id, lease_id, amount, due_date, paid_date, status
FROM payments
WHERE lease_id = $1 AND status IN ($2, $3)
ORDER BY COALESCE(paid_date, due_date) DESC
LIMIT 1`, leaseID, billing.PaymentStatusPaid, billing.PaymentStatusCompleted)
	payment, err := scanPayment(row)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func scanPayment(row rowScanner) (*billing.Payment, error) {
	var p billing.Payment
	var paidDate sql.NullTime
	err := row.Scan(&p.ID, &p.TenantID, &p.LeaseID, &p.Amount, &p.DueDate, &paidDate, &p.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.DueDate = p.DueDate.UTC()
	if paidDate.Valid {
		t := paidDate.Time.UTC()
		p.PaidDate = &t
	}
	return &p, nil
}

// LateFeeConfigRepository is a Postgres implementation for late fee configs.
type LateFeeConfigRepository struct {
	db *sql.DB
}

// NewLateFeeConfigRepository constructs a repository.
func NewLateFeeConfigRepository(db *sql.DB) *LateFeeConfigRepository {
	return &LateFeeConfigRepository{db: db}
}

// GetByProperty returns the stored config or nil when none exists.
func (r *LateFeeConfigRepository) GetByProperty(ctx context.Context, propertyID string) (*billing.LateFeeConfig, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("late fee config repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT property_id, grace_period_days, fee_type, fee_amount, max_fee_amount, is_active
FROM late_fee_configs
WHERE property_id = $1`, propertyID)

	var cfg billing.LateFeeConfig
	var maxFee sql.NullFloat64
	err := row.Scan(&cfg.PropertyID, &cfg.GracePeriodDays, &cfg.FeeType, &cfg.FeeAmount, &maxFee, &cfg.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if maxFee.Valid {
		v := maxFee.Float64
		cfg.MaxFeeAmount = &v
	}
	return &cfg, nil
}

// AgingSnapshotRepository is a Postgres implementation for aging snapshots.
type AgingSnapshotRepository struct {
	db *sql.DB
}

// NewAgingSnapshotRepository constructs a repository.
func NewAgingSnapshotRepository(db *sql.DB) *AgingSnapshotRepository {
	return &AgingSnapshotRepository{db: db}
}

// GetByLease returns the snapshot or nil when none exists.
func (r *AgingSnapshotRepository) GetByLease(ctx context.Context, leaseID string) (*billing.AgingSnapshot, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("aging snapshot repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT lease_id, current, days_30, days_60, days_90_plus, total_due, computed_at
FROM payment_agings
WHERE lease_id = $1`, leaseID)

	var s billing.AgingSnapshot
	err := row.Scan(&s.LeaseID, &s.Current, &s.Days30, &s.Days60, &s.Days90Plus, &s.TotalDue, &s.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.ComputedAt = s.ComputedAt.UTC()
	return &s, nil
}
