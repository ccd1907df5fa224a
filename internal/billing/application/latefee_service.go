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

const (
	skipReasonDisabled       = "late fees disabled for property"
	skipReasonGracePeriod    = "within grace period"
	skipReasonAlreadyApplied = "late fee already applied this month"
)

// ApplyRequest scopes a late fee run to one tenant and one property. Empty
// fields widen the run, down to every open charge for scheduled runs.
type ApplyRequest struct {
	TenantID   string
	PropertyID string
}

// AppliedFee describes one late fee the engine created.
type AppliedFee struct {
	FeeChargeID  string  `json:"fee_charge_id"`
	ChargeID     string  `json:"charge_id"`
	LeaseID      string  `json:"lease_id"`
	PropertyID   string  `json:"property_id"`
	DaysPastDue  int     `json:"days_past_due"`
	UnpaidAmount float64 `json:"unpaid_amount"`
	FeeAmount    float64 `json:"fee_amount"`
}

// SkippedFee describes one overdue charge the engine left alone.
type SkippedFee struct {
	ChargeID   string `json:"charge_id"`
	LeaseID    string `json:"lease_id"`
	PropertyID string `json:"property_id"`
	Reason     string `json:"reason"`
}

// ApplyResult summarizes a late fee run.
type ApplyResult struct {
	Date               time.Time    `json:"date"`
	ChargesProcessed   int          `json:"charges_processed"`
	LateFeesApplied    int          `json:"late_fees_applied"`
	LateFeesSkipped    int          `json:"late_fees_skipped"`
	TotalFeesGenerated float64      `json:"total_fees_generated"`
	Applied            []AppliedFee `json:"applied"`
	Skipped            []SkippedFee `json:"skipped"`
}

// LateFeeService scans overdue rent charges and applies the owning property's
// late fee policy. The already-applied guard is checked live per charge, so a
// lease with several overdue charges collects at most one fee per calendar
// month: the first fee created in a run suppresses the rest.
type LateFeeService struct {
	charges  billing.ChargeRepository
	configs  billing.LateFeeConfigRepository
	defaults billing.LateFeeConfig
	clock    Clock
	logger   *log.Logger
}

// NewLateFeeService constructs the engine. defaults is the policy used for
// properties with no stored config.
func NewLateFeeService(charges billing.ChargeRepository, configs billing.LateFeeConfigRepository, defaults billing.LateFeeConfig, clock Clock, logger *log.Logger) (*LateFeeService, error) {
	if charges == nil {
		return nil, errors.New("late fee service: nil charge repository")
	}
	if configs == nil {
		return nil, errors.New("late fee service: nil config repository")
	}
	if clock == nil {
		return nil, errors.New("late fee service: nil clock")
	}
	return &LateFeeService{charges: charges, configs: configs, defaults: defaults, clock: clock, logger: logger}, nil
}

// Apply runs the engine once. Each overdue charge is evaluated independently
// and per-charge failures land in the skip list rather than aborting the run.
func (s *LateFeeService) Apply(ctx context.Context, req ApplyRequest) (*ApplyResult, error) {
	start := s.clock.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveLateFeeApply(result, time.Since(start))
	}()

	now := s.clock.Now().UTC()
	overdue, err := s.charges.ListOverdueRent(ctx, req.TenantID, req.PropertyID, now)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	out := &ApplyResult{
		Date:    now,
		Applied: []AppliedFee{},
		Skipped: []SkippedFee{},
	}
	monthStart := billing.MonthOf(now)

	for _, charge := range overdue {
		out.ChargesProcessed++
		s.applyOne(ctx, out, charge, now, monthStart)
	}

	metrics.AddLateFeesApplied(out.LateFeesApplied)
	if s.logger != nil {
		s.logger.Printf("late fee run processed=%d applied=%d skipped=%d total=%.2f",
			out.ChargesProcessed, out.LateFeesApplied, out.LateFeesSkipped, out.TotalFeesGenerated)
	}
	return out, nil
}

func (s *LateFeeService) applyOne(ctx context.Context, out *ApplyResult, charge billing.RentCharge, now, monthStart time.Time) {
	skip := func(reason string) {
		out.LateFeesSkipped++
		out.Skipped = append(out.Skipped, SkippedFee{ChargeID: charge.ID, LeaseID: charge.LeaseID, PropertyID: charge.PropertyID, Reason: reason})
	}

	cfg, err := s.configForProperty(ctx, charge.PropertyID)
	if err != nil {
		skip("config lookup failed: " + err.Error())
		return
	}
	if !cfg.IsActive {
		skip(skipReasonDisabled)
		return
	}

	daysPastDue := billing.DaysPastDue(now, charge.DueDate)
	if daysPastDue <= cfg.GracePeriodDays {
		skip(skipReasonGracePeriod)
		return
	}

	applied, err := s.charges.HasLateFeeSince(ctx, charge.LeaseID, monthStart)
	if err != nil {
		skip("late fee lookup failed: " + err.Error())
		return
	}
	if applied {
		skip(skipReasonAlreadyApplied)
		return
	}

	unpaid := charge.Outstanding()
	fee, err := cfg.Fee(unpaid)
	if err != nil {
		skip("fee computation failed: " + err.Error())
		return
	}
	if fee <= 0 {
		skip("computed fee is zero")
		return
	}

	feeCharge := &billing.RentCharge{
		ID:          "chg-" + uuid.NewString(),
		TenantID:    charge.TenantID,
		LeaseID:     charge.LeaseID,
		PropertyID:  charge.PropertyID,
		UnitID:      charge.UnitID,
		Type:        billing.ChargeTypeLateFee,
		Amount:      fee,
		DueDate:     now,
		PeriodStart: monthStart,
		Status:      billing.ChargeStatusUnpaid,
		CreatedAt:   now,
	}
	created, err := s.charges.Create(ctx, feeCharge)
	if err != nil {
		skip("create failed: " + err.Error())
		return
	}
	if !created {
		skip(skipReasonAlreadyApplied)
		return
	}

	out.LateFeesApplied++
	out.TotalFeesGenerated += fee
	out.Applied = append(out.Applied, AppliedFee{
		FeeChargeID:  feeCharge.ID,
		ChargeID:     charge.ID,
		LeaseID:      charge.LeaseID,
		PropertyID:   charge.PropertyID,
		DaysPastDue:  daysPastDue,
		UnpaidAmount: unpaid,
		FeeAmount:    fee,
	})
}

func (s *LateFeeService) configForProperty(ctx context.Context, propertyID string) (billing.LateFeeConfig, error) {
	cfg, err := s.configs.GetByProperty(ctx, propertyID)
	if err != nil {
		return billing.LateFeeConfig{}, err
	}
	if cfg == nil {
		return s.defaults, nil
	}
	return *cfg, nil
}
