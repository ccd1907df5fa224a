package interfaces

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"

	reports "propfolio-cloud/internal/reports/domain"
)

// BuildPropertyReportPDF renders a property P&L as PDF.
func BuildPropertyReportPDF(report *reports.PropertyReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Property Profit & Loss")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Property: %s", report.PropertyName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", report.Period.Label()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Occupancy: %.1f%%", report.OccupancyRate))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Vacancy Loss: %.2f", report.VacancyLoss))
	pdf.Ln(8)

	pdf.Cell(0, 6, fmt.Sprintf("Rent Income: %.2f", report.RentIncome))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Late Fees: %.2f", report.LateFees))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Income: %.2f", report.TotalIncome))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Expenses: %.2f", report.TotalExpenses))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Net Income: %.2f", report.NetIncome))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Profit Margin: %.1f%%", report.ProfitMargin))
	pdf.Ln(8)

	// Expense buckets in a stable order.
	categories := make([]string, 0, len(report.Expenses))
	for category := range report.Expenses {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Expense Category", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, category := range categories {
		pdf.CellFormat(70, 6, category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", report.Expenses[category]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// Unit income table.
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Unit", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, "Income", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, unit := range report.Units {
		pdf.CellFormat(70, 6, unit.UnitNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", unit.Income), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// Expense detail, newest first as assembled.
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Category", "1", 0, "L", false, 0, "")
	pdf.CellFormat(70, 6, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, detail := range report.ExpenseDetail {
		pdf.CellFormat(30, 6, detail.Date.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, detail.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, detail.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", detail.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
