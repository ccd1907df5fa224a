package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	billing "propfolio-cloud/internal/billing/domain"
	"propfolio-cloud/internal/observability/metrics"
)

// GenerateRequest selects the billing month and optional tenant and property
// scope. Empty TenantID bills every tenant, which is how scheduled runs
// invoke the generator. Zero Year/Month means the clock's current month.
type GenerateRequest struct {
	TenantID   string
	PropertyID string
	Year       int
	Month      int
}

// ChargeDetail describes one charge the generator created.
type ChargeDetail struct {
	ChargeID   string             `json:"charge_id"`
	LeaseID    string             `json:"lease_id"`
	UnitID     string             `json:"unit_id"`
	PropertyID string             `json:"property_id"`
	RenterName string             `json:"tenant_name,omitempty"`
	Type       billing.ChargeType `json:"charge_type"`
	Amount     float64            `json:"amount"`
	DueDate    time.Time          `json:"due_date"`
}

// SkipDetail describes one charge the generator left alone.
type SkipDetail struct {
	LeaseID string             `json:"lease_id"`
	UnitID  string             `json:"unit_id"`
	Type    billing.ChargeType `json:"charge_type"`
	Reason  string             `json:"reason"`
}

// GenerateResult summarizes a charge generation run.
type GenerateResult struct {
	Period          string         `json:"period"`
	LeasesProcessed int            `json:"leases_processed"`
	ChargesCreated  int            `json:"charges_created"`
	ChargesSkipped  int            `json:"charges_skipped"`
	Created         []ChargeDetail `json:"created"`
	Skipped         []SkipDetail   `json:"skipped"`
}

// ChargeService generates periodic rent and recurring charges for active
// leases. Runs are idempotent per (lease, type, month): existing charges are
// reported as skipped, and the storage layer refuses duplicate inserts, so
// re-running a partially failed month only fills the gaps.
type ChargeService struct {
	leases    billing.LeaseRepository
	recurring billing.RecurringChargeRepository
	charges   billing.ChargeRepository
	clock     Clock
	logger    *log.Logger
}

// NewChargeService constructs the generator.
func NewChargeService(leases billing.LeaseRepository, recurring billing.RecurringChargeRepository, charges billing.ChargeRepository, clock Clock, logger *log.Logger) (*ChargeService, error) {
	if leases == nil {
		return nil, errors.New("charge service: nil lease repository")
	}
	if recurring == nil {
		return nil, errors.New("charge service: nil recurring repository")
	}
	if charges == nil {
		return nil, errors.New("charge service: nil charge repository")
	}
	if clock == nil {
		return nil, errors.New("charge service: nil clock")
	}
	return &ChargeService{leases: leases, recurring: recurring, charges: charges, clock: clock, logger: logger}, nil
}

// Generate creates missing charges for the target month. Creation is not
// wrapped in a transaction: each charge stands alone, and an error aborts
// only the remaining work while keeping what already succeeded.
func (s *ChargeService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	start := s.clock.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveChargeGenerate(result, time.Since(start))
	}()

	monthStart, err := s.resolveMonth(req)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	leases, err := s.leases.ListActiveCovering(ctx, req.TenantID, req.PropertyID, monthStart)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	out := &GenerateResult{
		Period:  billing.PeriodKey(monthStart),
		Created: []ChargeDetail{},
		Skipped: []SkipDetail{},
	}
	now := s.clock.Now().UTC()

	for _, lease := range leases {
		out.LeasesProcessed++
		templates, err := s.recurring.ListActiveByLease(ctx, lease.ID)
		if err != nil {
			result = metrics.ResultError
			return nil, err
		}
		for _, planned := range plannedCharges(lease, templates) {
			s.generateOne(ctx, out, lease, planned, monthStart, now)
		}
	}

	metrics.AddChargesCreated(out.ChargesCreated)
	if s.logger != nil {
		s.logger.Printf("charge generation period=%s leases=%d created=%d skipped=%d",
			out.Period, out.LeasesProcessed, out.ChargesCreated, out.ChargesSkipped)
	}
	return out, nil
}

type plannedCharge struct {
	chargeType billing.ChargeType
	amount     float64
	dayOfMonth int
}

// plannedCharges lists the charges a lease owes each month: always one RENT
// charge at the lease rent (due day taken from a RENT template when present),
// plus one charge per active non-RENT template.
func plannedCharges(lease billing.Lease, templates []billing.RecurringCharge) []plannedCharge {
	rent := plannedCharge{chargeType: billing.ChargeTypeRent, amount: lease.RentAmount, dayOfMonth: 1}
	var others []plannedCharge
	for _, tpl := range templates {
		if !tpl.IsActive {
			continue
		}
		if tpl.Type == billing.ChargeTypeRent {
			if tpl.DayOfMonth > 0 {
				rent.dayOfMonth = tpl.DayOfMonth
			}
			continue
		}
		others = append(others, plannedCharge{chargeType: tpl.Type, amount: tpl.Amount, dayOfMonth: tpl.DayOfMonth})
	}
	return append([]plannedCharge{rent}, others...)
}

func (s *ChargeService) generateOne(ctx context.Context, out *GenerateResult, lease billing.Lease, planned plannedCharge, monthStart, now time.Time) {
	exists, err := s.charges.ExistsForPeriod(ctx, lease.ID, planned.chargeType, monthStart)
	if err != nil {
		out.ChargesSkipped++
		out.Skipped = append(out.Skipped, SkipDetail{LeaseID: lease.ID, UnitID: lease.UnitID, Type: planned.chargeType, Reason: "lookup failed: " + err.Error()})
		return
	}
	if exists {
		out.ChargesSkipped++
		out.Skipped = append(out.Skipped, SkipDetail{LeaseID: lease.ID, UnitID: lease.UnitID, Type: planned.chargeType, Reason: "charge already exists for period"})
		return
	}

	charge := &billing.RentCharge{
		ID:          "chg-" + uuid.NewString(),
		TenantID:    lease.TenantID,
		LeaseID:     lease.ID,
		PropertyID:  lease.PropertyID,
		UnitID:      lease.UnitID,
		Type:        planned.chargeType,
		Amount:      planned.amount,
		DueDate:     billing.DueDateFor(monthStart, planned.dayOfMonth),
		PeriodStart: monthStart,
		Status:      billing.ChargeStatusUnpaid,
		CreatedAt:   now,
	}
	if err := billing.ValidCharge(charge); err != nil {
		out.ChargesSkipped++
		out.Skipped = append(out.Skipped, SkipDetail{LeaseID: lease.ID, UnitID: lease.UnitID, Type: planned.chargeType, Reason: "invalid charge: " + err.Error()})
		return
	}

	created, err := s.charges.Create(ctx, charge)
	if err != nil {
		out.ChargesSkipped++
		out.Skipped = append(out.Skipped, SkipDetail{LeaseID: lease.ID, UnitID: lease.UnitID, Type: planned.chargeType, Reason: "create failed: " + err.Error()})
		return
	}
	if !created {
		// Lost a race to a concurrent run; the charge is there either way.
		out.ChargesSkipped++
		out.Skipped = append(out.Skipped, SkipDetail{LeaseID: lease.ID, UnitID: lease.UnitID, Type: planned.chargeType, Reason: "charge already exists for period"})
		return
	}

	out.ChargesCreated++
	out.Created = append(out.Created, ChargeDetail{
		ChargeID:   charge.ID,
		LeaseID:    lease.ID,
		UnitID:     lease.UnitID,
		PropertyID: lease.PropertyID,
		RenterName: lease.RenterName,
		Type:       charge.Type,
		Amount:     charge.Amount,
		DueDate:    charge.DueDate,
	})
}

func (s *ChargeService) resolveMonth(req GenerateRequest) (time.Time, error) {
	if req.Year == 0 && req.Month == 0 {
		return billing.MonthOf(s.clock.Now()), nil
	}
	return billing.MonthStart(req.Year, req.Month)
}
