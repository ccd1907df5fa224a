package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	expenses "propfolio-cloud/internal/expenses/domain"
	"propfolio-cloud/internal/observability/metrics"
	reports "propfolio-cloud/internal/reports/domain"
)

// trendMonths is the length of the trailing revenue trend on the company
// report.
const trendMonths = 6

// CompanyService builds the management company P&L.
type CompanyService struct {
	invoices reports.InvoiceReader
	expenses expenses.Repository
	logger   *log.Logger
}

// NewCompanyService constructs a company report service.
func NewCompanyService(invoices reports.InvoiceReader, expenseRepo expenses.Repository, logger *log.Logger) (*CompanyService, error) {
	if invoices == nil || expenseRepo == nil {
		return nil, errors.New("company report service: nil reader")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CompanyService{invoices: invoices, expenses: expenseRepo, logger: logger}, nil
}

// Build assembles the company report for the period anchored at
// (year, month).
func (s *CompanyService) Build(ctx context.Context, tenantID string, periodType reports.PeriodType, year, month int) (*reports.CompanyReport, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReport("company", result, time.Since(start))
	}()

	period, err := reports.ResolvePeriod(periodType, year, month)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	items, err := s.invoices.ListPaidLineItems(ctx, tenantID, "", period)
	if err != nil {
		result = metrics.ResultError
		return nil, fmt.Errorf("list paid invoice lines: %w", err)
	}

	report := &reports.CompanyReport{
		Period:   period,
		Expenses: emptyCompanyBuckets(),
	}
	ownerRevenue := map[string]*reports.OwnerRevenue{}
	for _, item := range items {
		switch item.Type {
		case reports.LineItemManagementFee:
			report.Revenue.ManagementFees += item.Amount
		case reports.LineItemFlatFee:
			report.Revenue.FlatFees += item.Amount
		default:
			report.Revenue.Other += item.Amount
		}
		report.Revenue.Total += item.Amount

		owner, ok := ownerRevenue[item.OwnerID]
		if !ok {
			owner = &reports.OwnerRevenue{OwnerID: item.OwnerID, OwnerName: item.OwnerName}
			ownerRevenue[item.OwnerID] = owner
		}
		owner.Revenue += item.Amount
	}
	for _, owner := range ownerRevenue {
		report.ByOwner = append(report.ByOwner, *owner)
	}
	sort.Slice(report.ByOwner, func(i, j int) bool {
		if report.ByOwner[i].Revenue != report.ByOwner[j].Revenue {
			return report.ByOwner[i].Revenue > report.ByOwner[j].Revenue
		}
		return report.ByOwner[i].OwnerID < report.ByOwner[j].OwnerID
	})

	companyExpenses, err := s.expenses.ListCompany(ctx, tenantID, period.Start, period.End)
	if err != nil {
		result = metrics.ResultError
		return nil, fmt.Errorf("list company expenses: %w", err)
	}
	for _, expense := range companyExpenses {
		report.Expenses[reports.CompanyCategory(expense.Category)] += expense.Amount
		report.TotalExpenses += expense.Amount
	}

	report.NetIncome = report.Revenue.Total - report.TotalExpenses
	report.ProfitMargin = reports.ProfitMargin(report.NetIncome, report.Revenue.Total)

	trend, err := s.revenueTrend(ctx, tenantID, period.Start)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	report.Trend = trend
	return report, nil
}

// revenueTrend walks the trailing months one query each, oldest first.
func (s *CompanyService) revenueTrend(ctx context.Context, tenantID string, anchor time.Time) ([]reports.TrendPoint, error) {
	trend := make([]reports.TrendPoint, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		window := reports.MonthWindow(anchor.AddDate(0, -i, 0))
		items, err := s.invoices.ListPaidLineItems(ctx, tenantID, "", window)
		if err != nil {
			return nil, fmt.Errorf("trend month %s: %w", window.Start.Format("2006-01"), err)
		}
		var revenue float64
		for _, item := range items {
			revenue += item.Amount
		}
		trend = append(trend, reports.TrendPoint{
			Month:   window.Start.Format("2006-01"),
			Revenue: revenue,
		})
	}
	return trend, nil
}

func emptyCompanyBuckets() map[string]float64 {
	return map[string]float64{
		reports.CompanyCategoryPayroll:   0,
		reports.CompanyCategorySoftware:  0,
		reports.CompanyCategoryMarketing: 0,
		reports.CompanyCategoryOffice:    0,
		reports.CompanyCategoryInsurance: 0,
		reports.CompanyCategoryOther:     0,
	}
}
