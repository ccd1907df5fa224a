package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	billingapp "propfolio-cloud/internal/billing/application"
	billing "propfolio-cloud/internal/billing/domain"
	"propfolio-cloud/internal/observability/metrics"
	portfolio "propfolio-cloud/internal/portfolio/domain"
	rentroll "propfolio-cloud/internal/rentroll/domain"
)

// ErrPropertyNotFound marks requests against unknown or foreign properties.
var ErrPropertyNotFound = errors.New("property not found")

// Service assembles rent rolls and aging reports from portfolio and
// billing data.
type Service struct {
	properties portfolio.PropertyRepository
	units      portfolio.UnitRepository
	invites    portfolio.InviteRepository
	leases     billing.LeaseRepository
	aging      *billingapp.AgingService
	clock      billingapp.Clock
	logger     *log.Logger
}

// NewService constructs a rent roll service.
func NewService(
	properties portfolio.PropertyRepository,
	units portfolio.UnitRepository,
	invites portfolio.InviteRepository,
	leases billing.LeaseRepository,
	aging *billingapp.AgingService,
	clock billingapp.Clock,
	logger *log.Logger,
) (*Service, error) {
	if properties == nil || units == nil || leases == nil {
		return nil, errors.New("rent roll service: nil repository")
	}
	if aging == nil {
		return nil, errors.New("rent roll service: nil aging service")
	}
	if clock == nil {
		return nil, errors.New("rent roll service: nil clock")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		properties: properties,
		units:      units,
		invites:    invites,
		leases:     leases,
		aging:      aging,
		clock:      clock,
		logger:     logger,
	}, nil
}

// ForProperty builds the rent roll for one property.
func (s *Service) ForProperty(ctx context.Context, tenantID, propertyID string, filter rentroll.StatusFilter) (*rentroll.Report, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveRentRoll(result, time.Since(start))
	}()

	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		result = metrics.ResultError
		return nil, fmt.Errorf("load property: %w", err)
	}
	if property == nil || property.TenantID != tenantID {
		result = metrics.ResultError
		return nil, ErrPropertyNotFound
	}

	rows, err := s.assembleProperty(ctx, *property)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return s.finish(rows, filter), nil
}

// ForPortfolio builds the rent roll across properties, optionally
// filtered to one owner and/or one property.
func (s *Service) ForPortfolio(ctx context.Context, tenantID, ownerID, propertyID string, filter rentroll.StatusFilter) (*rentroll.Report, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveRentRoll(result, time.Since(start))
	}()

	properties, err := s.properties.List(ctx, tenantID, ownerID, propertyID)
	if err != nil {
		result = metrics.ResultError
		return nil, fmt.Errorf("list properties: %w", err)
	}

	var rows []rentroll.Row
	for _, property := range properties {
		propertyRows, err := s.assembleProperty(ctx, property)
		if err != nil {
			result = metrics.ResultError
			return nil, err
		}
		rows = append(rows, propertyRows...)
	}
	return s.finish(rows, filter), nil
}

// Aging builds the delinquency report grouped per bucket with per-tenant
// detail, each bucket sorted descending by amount.
func (s *Service) Aging(ctx context.Context, tenantID, ownerID, propertyID string) (*rentroll.AgingReport, error) {
	properties, err := s.properties.List(ctx, tenantID, ownerID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	now := s.clock.Now()
	report := &rentroll.AgingReport{}
	for _, property := range properties {
		units, err := s.units.ListByProperty(ctx, property.ID)
		if err != nil {
			return nil, fmt.Errorf("list units for %s: %w", property.ID, err)
		}
		for _, unit := range units {
			lease, err := s.leases.ActiveByUnit(ctx, unit.ID)
			if err != nil {
				return nil, fmt.Errorf("load lease for unit %s: %w", unit.ID, err)
			}
			if lease == nil {
				continue
			}
			aging, err := s.aging.ForLease(ctx, lease.ID, now)
			if err != nil {
				return nil, fmt.Errorf("aging for lease %s: %w", lease.ID, err)
			}
			if aging.TotalDue <= 0 {
				continue
			}
			report.AddLease(rentroll.AgingEntry{
				LeaseID:      lease.ID,
				TenantName:   lease.RenterName,
				PropertyName: property.Name,
				UnitNumber:   unit.Number,
			}, aging)
		}
	}
	report.Sort()
	return report, nil
}

func (s *Service) finish(rows []rentroll.Row, filter rentroll.StatusFilter) *rentroll.Report {
	rows = rentroll.FilterRows(rows, filter)
	if rows == nil {
		rows = []rentroll.Row{}
	}
	return &rentroll.Report{Rows: rows, Totals: rentroll.ComputeTotals(rows)}
}

func (s *Service) assembleProperty(ctx context.Context, property portfolio.Property) ([]rentroll.Row, error) {
	units, err := s.units.ListByProperty(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("list units for %s: %w", property.ID, err)
	}

	rows := make([]rentroll.Row, 0, len(units))
	for _, unit := range units {
		row, err := s.assembleUnit(ctx, property, unit)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Service) assembleUnit(ctx context.Context, property portfolio.Property, unit portfolio.Unit) (rentroll.Row, error) {
	row := rentroll.Row{
		PropertyID:      property.ID,
		PropertyName:    property.Name,
		PropertyAddress: property.FullAddress(),
		UnitID:          unit.ID,
		UnitNumber:      unit.Number,
		Bedrooms:        unit.Bedrooms,
		Bathrooms:       unit.Bathrooms,
		SquareFeet:      unit.SquareFeet,
		MarketRent:      unit.MarketRent,
	}

	lease, err := s.leases.ActiveByUnit(ctx, unit.ID)
	if err != nil {
		return rentroll.Row{}, fmt.Errorf("load lease for unit %s: %w", unit.ID, err)
	}
	if lease == nil {
		// Vacancy row. Historical leases never contribute a balance.
		if s.invites != nil {
			invite, err := s.invites.PendingByUnit(ctx, unit.ID)
			if err != nil {
				return rentroll.Row{}, fmt.Errorf("load invite for unit %s: %w", unit.ID, err)
			}
			if invite != nil {
				row.PendingInvite = invite.Email
			}
		}
		return row, nil
	}

	row.Occupied = true
	row.LeaseID = lease.ID
	row.LeaseRent = lease.RentAmount
	start := lease.StartDate
	row.LeaseStart = &start
	row.LeaseEnd = lease.EndDate
	row.Tenant = &rentroll.Tenant{
		Name:  lease.RenterName,
		Email: lease.RenterEmail,
		Phone: lease.RenterPhone,
	}

	aging, err := s.aging.ForLease(ctx, lease.ID, s.clock.Now())
	if err != nil {
		return rentroll.Row{}, fmt.Errorf("aging for lease %s: %w", lease.ID, err)
	}
	row.Aging = aging
	row.CurrentBalance = aging.TotalDue

	paidAt, amount, err := s.aging.LastPayment(ctx, lease.ID)
	if err != nil {
		return rentroll.Row{}, fmt.Errorf("last payment for lease %s: %w", lease.ID, err)
	}
	if paidAt != nil {
		row.LastPayment = &rentroll.LastPayment{Date: *paidAt, Amount: amount}
	}
	return row, nil
}
