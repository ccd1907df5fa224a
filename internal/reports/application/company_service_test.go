package application

import (
	"context"
	"testing"

	expenses "propfolio-cloud/internal/expenses/domain"
	expensemem "propfolio-cloud/internal/expenses/infrastructure/memory"
	reports "propfolio-cloud/internal/reports/domain"
	reportmem "propfolio-cloud/internal/reports/infrastructure/memory"
)

func TestCompanyReportRevenueAndBuckets(t *testing.T) {
	reader := reportmem.NewReader()
	reader.PutLineItem("acme", reports.PaidLineItem{InvoiceID: "inv-1", OwnerID: "owner-1", OwnerName: "Alice Owner", Type: reports.LineItemManagementFee, Amount: 800, PaidDate: june(3)})
	reader.PutLineItem("acme", reports.PaidLineItem{InvoiceID: "inv-2", OwnerID: "owner-2", OwnerName: "Bob Owner", Type: reports.LineItemFlatFee, Amount: 1200, PaidDate: june(7)})
	reader.PutLineItem("acme", reports.PaidLineItem{InvoiceID: "inv-3", OwnerID: "owner-1", Type: "setup_fee", Amount: 100, PaidDate: june(20)})
	// Prior-month revenue feeds only the trend.
	reader.PutLineItem("acme", reports.PaidLineItem{InvoiceID: "inv-0", OwnerID: "owner-1", Type: reports.LineItemManagementFee, Amount: 700, PaidDate: june(1).AddDate(0, -1, 0)})

	expenseRepo := expensemem.NewRepository()
	mustCreate(t, expenseRepo, expenses.Expense{ID: "exp-1", TenantID: "acme", Category: "Payroll - June", Amount: 600, Date: june(2)})
	mustCreate(t, expenseRepo, expenses.Expense{ID: "exp-2", TenantID: "acme", Category: "Travel", Amount: 150, Date: june(4)})
	// Property-level expenses never show on the company report.
	mustCreate(t, expenseRepo, expenses.Expense{ID: "exp-3", TenantID: "acme", PropertyID: "prop-1", Category: "REPAIR", Amount: 900, Date: june(4)})

	svc, err := NewCompanyService(reader, expenseRepo, quietLogger())
	if err != nil {
		t.Fatalf("new company service: %v", err)
	}

	report, err := svc.Build(context.Background(), "acme", reports.PeriodMonth, 2024, 6)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.Revenue.ManagementFees != 800 || report.Revenue.FlatFees != 1200 || report.Revenue.Other != 100 {
		t.Fatalf("unexpected revenue breakdown %+v", report.Revenue)
	}
	if report.Revenue.Total != 2100 {
		t.Fatalf("expected total revenue 2100, got %v", report.Revenue.Total)
	}
	if report.Expenses[reports.CompanyCategoryPayroll] != 600 {
		t.Fatalf("expected 600 payroll, got %+v", report.Expenses)
	}
	if report.Expenses[reports.CompanyCategoryOther] != 150 {
		t.Fatalf("expected 150 other, got %+v", report.Expenses)
	}
	if report.TotalExpenses != 750 {
		t.Fatalf("expected 750 total expenses, got %v", report.TotalExpenses)
	}
	if report.NetIncome != 1350 {
		t.Fatalf("expected net 1350, got %v", report.NetIncome)
	}
	if report.ProfitMargin != 64.3 {
		t.Fatalf("expected margin 64.3, got %v", report.ProfitMargin)
	}

	if len(report.ByOwner) != 2 {
		t.Fatalf("expected 2 owners, got %+v", report.ByOwner)
	}
	if report.ByOwner[0].OwnerID != "owner-2" || report.ByOwner[0].Revenue != 1200 {
		t.Fatalf("expected owner-2 first by revenue, got %+v", report.ByOwner[0])
	}
	if report.ByOwner[1].Revenue != 900 {
		t.Fatalf("expected owner-1 revenue 900, got %+v", report.ByOwner[1])
	}

	if len(report.Trend) != 6 {
		t.Fatalf("expected 6 trend months, got %d", len(report.Trend))
	}
	last := report.Trend[5]
	if last.Month != "2024-06" || last.Revenue != 2100 {
		t.Fatalf("unexpected newest trend point %+v", last)
	}
	if report.Trend[4].Month != "2024-05" || report.Trend[4].Revenue != 700 {
		t.Fatalf("unexpected prior trend point %+v", report.Trend[4])
	}
	if report.Trend[0].Month != "2024-01" {
		t.Fatalf("expected trend to start at 2024-01, got %q", report.Trend[0].Month)
	}
}
