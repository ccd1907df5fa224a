package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	expenses "propfolio-cloud/internal/expenses/domain"
	"propfolio-cloud/internal/observability/metrics"
	portfolio "propfolio-cloud/internal/portfolio/domain"
	reports "propfolio-cloud/internal/reports/domain"
)

// ErrOwnerRequired marks owner report requests without an owner id.
var ErrOwnerRequired = errors.New("owner id required")

// OwnerService builds per-owner P&L reports.
type OwnerService struct {
	properties portfolio.PropertyRepository
	income     reports.IncomeReader
	invoices   reports.InvoiceReader
	expenses   expenses.Repository
	logger     *log.Logger
}

// NewOwnerService constructs an owner report service.
func NewOwnerService(
	properties portfolio.PropertyRepository,
	income reports.IncomeReader,
	invoices reports.InvoiceReader,
	expenseRepo expenses.Repository,
	logger *log.Logger,
) (*OwnerService, error) {
	if properties == nil || income == nil || invoices == nil || expenseRepo == nil {
		return nil, errors.New("owner report service: nil reader")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &OwnerService{
		properties: properties,
		income:     income,
		invoices:   invoices,
		expenses:   expenseRepo,
		logger:     logger,
	}, nil
}

// Build assembles the owner report across all of the owner's properties.
func (s *OwnerService) Build(ctx context.Context, tenantID, ownerID string, periodType reports.PeriodType, year, month int) (*reports.OwnerReport, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReport("owner", result, time.Since(start))
	}()

	if ownerID == "" {
		result = metrics.ResultError
		return nil, ErrOwnerRequired
	}
	period, err := reports.ResolvePeriod(periodType, year, month)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	properties, err := s.properties.List(ctx, tenantID, ownerID, "")
	if err != nil {
		result = metrics.ResultError
		return nil, fmt.Errorf("list owner properties: %w", err)
	}

	report := &reports.OwnerReport{
		Period:   period,
		OwnerID:  ownerID,
		Expenses: emptyPropertyBuckets(),
	}
	propertyIDs := make([]string, 0, len(properties))
	byProperty := map[string]*reports.PropertyBreakdown{}
	for _, property := range properties {
		propertyIDs = append(propertyIDs, property.ID)
		byProperty[property.ID] = &reports.PropertyBreakdown{
			PropertyID:   property.ID,
			PropertyName: property.Name,
		}
	}

	if len(propertyIDs) > 0 {
		items, err := s.income.ListIncome(ctx, propertyIDs, period)
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
			if breakdown, ok := byProperty[item.PropertyID]; ok {
				breakdown.Income += item.Amount
			}
		}

		propertyExpenses, err := s.expenses.ListByProperties(ctx, propertyIDs, period.Start, period.End)
		if err != nil {
			result = metrics.ResultError
			return nil, fmt.Errorf("list property expenses: %w", err)
		}
		for _, expense := range propertyExpenses {
			report.Expenses[reports.PropertyCategory(expense.Category)] += expense.Amount
			report.TotalExpenses += expense.Amount
			if breakdown, ok := byProperty[expense.PropertyID]; ok {
				breakdown.Expenses += expense.Amount
			}
		}
	}

	// The fees the owner pays the management company come out of their own
	// paid invoices, not expense rows.
	invoiceLines, err := s.invoices.ListPaidLineItems(ctx, tenantID, ownerID, period)
	if err != nil {
		result = metrics.ResultError
		return nil, fmt.Errorf("list owner invoices: %w", err)
	}
	for _, line := range invoiceLines {
		report.ManagementFees += line.Amount
	}
	report.TotalExpenses += report.ManagementFees

	report.NetIncome = report.TotalIncome - report.TotalExpenses
	report.ProfitMargin = reports.ProfitMargin(report.NetIncome, report.TotalIncome)

	for _, property := range properties {
		breakdown := byProperty[property.ID]
		breakdown.NetIncome = breakdown.Income - breakdown.Expenses
		report.Properties = append(report.Properties, *breakdown)
	}
	return report, nil
}

func emptyPropertyBuckets() map[string]float64 {
	return map[string]float64{
		reports.PropertyCategoryMaintenance: 0,
		reports.PropertyCategoryRepair:      0,
		reports.PropertyCategoryUtility:     0,
		reports.PropertyCategoryInsurance:   0,
		reports.PropertyCategoryTax:         0,
		reports.PropertyCategoryOther:       0,
	}
}
