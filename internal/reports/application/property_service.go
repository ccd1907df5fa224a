package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	billing "propfolio-cloud/internal/billing/domain"
	expenses "propfolio-cloud/internal/expenses/domain"
	"propfolio-cloud/internal/observability/metrics"
	portfolio "propfolio-cloud/internal/portfolio/domain"
	reports "propfolio-cloud/internal/reports/domain"
)

// ErrPropertyNotFound marks report requests against unknown properties.
var ErrPropertyNotFound = errors.New("property not found")

// PropertyService builds single-property P&L reports.
type PropertyService struct {
	properties portfolio.PropertyRepository
	units      portfolio.UnitRepository
	leases     billing.LeaseRepository
	income     reports.IncomeReader
	expenses   expenses.Repository
	logger     *log.Logger
}

// NewPropertyService constructs a property report service.
func NewPropertyService(
	properties portfolio.PropertyRepository,
	units portfolio.UnitRepository,
	leases billing.LeaseRepository,
	income reports.IncomeReader,
	expenseRepo expenses.Repository,
	logger *log.Logger,
) (*PropertyService, error) {
	if properties == nil || units == nil || leases == nil || income == nil || expenseRepo == nil {
		return nil, errors.New("property report service: nil reader")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PropertyService{
		properties: properties,
		units:      units,
		leases:     leases,
		income:     income,
		expenses:   expenseRepo,
		logger:     logger,
	}, nil
}

// Build assembles the property report with per-unit income, expense
// detail and occupancy figures.
func (s *PropertyService) Build(ctx context.Context, tenantID, propertyID string, periodType reports.PeriodType, year, month int) (*reports.PropertyReport, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReport("property", result, time.Since(start))
	}()

	period, err := reports.ResolvePeriod(periodType, year, month)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		result = metrics.ResultError
		return nil, fmt.Errorf("load property: %w", err)
	}
	if property == nil || property.TenantID != tenantID {
		result = metrics.ResultError
		return nil, ErrPropertyNotFound
	}

	report := &reports.PropertyReport{
		Period:       period,
		PropertyID:   property.ID,
		PropertyName: property.Name,
		Expenses:     emptyPropertyBuckets(),
	}

	units, err := s.units.ListByProperty(ctx, property.ID)
	if err != nil {
		result = metrics.ResultError
		return nil, fmt.Errorf("list units: %w", err)
	}
	unitIncome := map[string]*reports.UnitIncome{}
	var occupied int
	var potentialRent float64
	for _, unit := range units {
		unitIncome[unit.ID] = &reports.UnitIncome{UnitID: unit.ID, UnitNumber: unit.Number}
		potentialRent += unit.MarketRent
		lease, err := s.leases.ActiveByUnit(ctx, unit.ID)
		if err != nil {
			result = metrics.ResultError
			return nil, fmt.Errorf("load lease for unit %s: %w", unit.ID, err)
		}
		if lease != nil {
			occupied++
		}
	}

	items, err := s.income.ListIncome(ctx, []string{property.ID}, period)
	if err != nil {
		result = metrics.ResultError
		return nil, fmt.Errorf("list income: %w", err)
	}
	for _, item := range items {
		if item.LateFee {
			report.LateFees += item.Amount
		} else {
			report.RentIncome += item.Amount
		}
		report.TotalIncome += item.Amount
		if unit, ok := unitIncome[item.UnitID]; ok {
			unit.Income += item.Amount
		}
	}
	for _, unit := range units {
		report.Units = append(report.Units, *unitIncome[unit.ID])
	}

	propertyExpenses, err := s.expenses.ListByProperties(ctx, []string{property.ID}, period.Start, period.End)
	if err != nil {
		result = metrics.ResultError
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	for _, expense := range propertyExpenses {
		report.Expenses[reports.PropertyCategory(expense.Category)] += expense.Amount
		report.TotalExpenses += expense.Amount
		report.ExpenseDetail = append(report.ExpenseDetail, reports.ExpenseDetail{
			ID:          expense.ID,
			Category:    reports.PropertyCategory(expense.Category),
			Description: expense.Description,
			Amount:      expense.Amount,
			Date:        expense.Date,
		})
	}
	sort.SliceStable(report.ExpenseDetail, func(i, j int) bool {
		return report.ExpenseDetail[i].Date.After(report.ExpenseDetail[j].Date)
	})

	report.NetIncome = report.TotalIncome - report.TotalExpenses
	report.ProfitMargin = reports.ProfitMargin(report.NetIncome, report.TotalIncome)

	if len(units) > 0 {
		rate := float64(occupied) / float64(len(units)) * 100
		report.OccupancyRate = math.Round(rate*10) / 10
		vacant := len(units) - occupied
		report.VacancyLoss = float64(vacant) * (potentialRent / float64(len(units)))
	}
	return report, nil
}
