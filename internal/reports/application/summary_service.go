package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	billing "propfolio-cloud/internal/billing/domain"
	portfolio "propfolio-cloud/internal/portfolio/domain"
	reports "propfolio-cloud/internal/reports/domain"
)

// SummaryService builds the monthly financial summary for a property.
type SummaryService struct {
	properties portfolio.PropertyRepository
	units      portfolio.UnitRepository
	leases     billing.LeaseRepository
	summary    reports.SummaryReader
	logger     *log.Logger
}

// NewSummaryService constructs a financial summary service.
func NewSummaryService(
	properties portfolio.PropertyRepository,
	units portfolio.UnitRepository,
	leases billing.LeaseRepository,
	summary reports.SummaryReader,
	logger *log.Logger,
) (*SummaryService, error) {
	if properties == nil || units == nil || leases == nil || summary == nil {
		return nil, errors.New("summary service: nil reader")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SummaryService{
		properties: properties,
		units:      units,
		leases:     leases,
		summary:    summary,
		logger:     logger,
	}, nil
}

// Build assembles occupancy, collection and vacancy figures for one
// calendar month.
func (s *SummaryService) Build(ctx context.Context, tenantID, propertyID string, monthStart time.Time) (*reports.FinancialSummary, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("load property: %w", err)
	}
	if property == nil || property.TenantID != tenantID {
		return nil, ErrPropertyNotFound
	}

	units, err := s.units.ListByProperty(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	var occupied int
	var potentialRent float64
	for _, unit := range units {
		potentialRent += unit.MarketRent
		lease, err := s.leases.ActiveByUnit(ctx, unit.ID)
		if err != nil {
			return nil, fmt.Errorf("load lease for unit %s: %w", unit.ID, err)
		}
		if lease != nil {
			occupied++
		}
	}

	totals, err := s.summary.MonthlyChargeTotals(ctx, property.ID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("charge totals: %w", err)
	}

	summary := &reports.FinancialSummary{
		PropertyID:         property.ID,
		Month:              monthStart.Format("2006-01"),
		TotalUnits:         len(units),
		OccupiedUnits:      occupied,
		VacantUnits:        len(units) - occupied,
		RentBilled:         totals.Billed,
		RentCollected:      totals.Collected,
		OutstandingBalance: totals.Outstanding,
	}
	if len(units) > 0 {
		rate := float64(occupied) / float64(len(units)) * 100
		summary.OccupancyRate = math.Round(rate*10) / 10
		summary.VacancyLoss = float64(summary.VacantUnits) * (potentialRent / float64(len(units)))
	}
	if totals.Billed > 0 {
		summary.CollectionRate = math.Round(totals.Collected/totals.Billed*1000) / 10
	}
	return summary, nil
}
