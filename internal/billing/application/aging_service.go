package application

import (
	"context"
	"errors"
	"time"

	billing "propfolio-cloud/internal/billing/domain"
)

// AgingService is the single place lease balances are aged. Every rent-roll
// and report call site goes through here so the snapshot shortcut and the
// charge-vs-legacy-payment precedence stay consistent.
type AgingService struct {
	charges   billing.ChargeRepository
	payments  billing.PaymentRepository
	snapshots billing.AgingSnapshotRepository
}

// NewAgingService constructs the service. snapshots may be nil when the
// deployment has no precomputed aging table.
func NewAgingService(charges billing.ChargeRepository, payments billing.PaymentRepository, snapshots billing.AgingSnapshotRepository) (*AgingService, error) {
	if charges == nil {
		return nil, errors.New("aging service: nil charge repository")
	}
	if payments == nil {
		return nil, errors.New("aging service: nil payment repository")
	}
	return &AgingService{charges: charges, payments: payments, snapshots: snapshots}, nil
}

// ForLease ages a lease's outstanding balance against ref. A stored snapshot
// is returned verbatim; otherwise open charges are aged, falling back to
// legacy payments only when the lease has zero open charge rows.
func (s *AgingService) ForLease(ctx context.Context, leaseID string, ref time.Time) (billing.Aging, error) {
	if s.snapshots != nil {
		snapshot, err := s.snapshots.GetByLease(ctx, leaseID)
		if err != nil {
			return billing.Aging{}, err
		}
		if snapshot != nil {
			return snapshot.Aging(), nil
		}
	}

	charges, err := s.charges.ListOpenByLease(ctx, leaseID)
	if err != nil {
		return billing.Aging{}, err
	}
	payments, err := s.payments.ListOpenByLease(ctx, leaseID)
	if err != nil {
		return billing.Aging{}, err
	}
	return billing.ComputeAging(ref, billing.SelectObligations(charges, payments)), nil
}

// LastPayment returns the date and amount of the most recent completed
// collection for a lease: the latest PAID charge when the lease has charge
// history, else the latest completed legacy payment. Returns nil date when
// nothing was ever collected.
func (s *AgingService) LastPayment(ctx context.Context, leaseID string) (*time.Time, float64, error) {
	charge, err := s.charges.LastPaidByLease(ctx, leaseID)
	if err != nil {
		return nil, 0, err
	}
	if charge != nil {
		due := charge.DueDate
		return &due, charge.PaidAmount, nil
	}
	payment, err := s.payments.LastCompletedByLease(ctx, leaseID)
	if err != nil {
		return nil, 0, err
	}
	if payment == nil {
		return nil, 0, nil
	}
	when := payment.DueDate
	if payment.PaidDate != nil {
		when = *payment.PaidDate
	}
	return &when, payment.Amount, nil
}
