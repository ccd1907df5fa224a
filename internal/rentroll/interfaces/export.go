package interfaces

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	rentroll "propfolio-cloud/internal/rentroll/domain"
)

// csvHeader is the fixed export layout. Downstream spreadsheets key on
// these column names, do not reorder.
var csvHeader = []string{
	"Property",
	"Address",
	"Unit",
	"Status",
	"Beds",
	"Baths",
	"Sq Ft",
	"Market Rent",
	"Lease Rent",
	"Tenant Name",
	"Tenant Email",
	"Tenant Phone",
	"Lease Start",
	"Lease End",
	"Current Balance",
	"Current (0-30)",
	"31-60 Days",
	"61-90 Days",
	"90+ Days",
	"Last Payment Date",
	"Last Payment Amount",
}

const exportDateLayout = "2006-01-02"

// BuildRentRollCSV renders rows as CSV with the fixed 21-column header.
func BuildRentRollCSV(rows []rentroll.Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(csvRecord(row)); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRecord(row rentroll.Row) []string {
	record := []string{
		row.PropertyName,
		row.PropertyAddress,
		row.UnitNumber,
		row.Status(),
		fmt.Sprintf("%d", row.Bedrooms),
		fmt.Sprintf("%g", row.Bathrooms),
		fmt.Sprintf("%d", row.SquareFeet),
		money(row.MarketRent),
		"",
		"", "", "",
		"", "",
		money(row.CurrentBalance),
		money(row.Aging.Current),
		money(row.Aging.Days30),
		money(row.Aging.Days60),
		money(row.Aging.Days90Plus),
		"", "",
	}
	if row.Occupied {
		record[8] = money(row.LeaseRent)
		if row.Tenant != nil {
			record[9] = row.Tenant.Name
			record[10] = row.Tenant.Email
			record[11] = row.Tenant.Phone
		}
		record[12] = dateOrEmpty(row.LeaseStart)
		record[13] = dateOrEmpty(row.LeaseEnd)
	}
	if row.LastPayment != nil {
		record[19] = row.LastPayment.Date.Format(exportDateLayout)
		record[20] = money(row.LastPayment.Amount)
	}
	return record
}

// BuildRentRollXLSX renders the rent roll as a workbook with a rows sheet
// and a totals sheet.
func BuildRentRollXLSX(report *rentroll.Report) ([]byte, error) {
	f := excelize.NewFile()
	rowsSheet := "rent_roll"
	totalsSheet := "totals"
	f.SetSheetName("Sheet1", rowsSheet)
	f.NewSheet(totalsSheet)

	for col, name := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(rowsSheet, cell, name)
	}
	for i, row := range report.Rows {
		record := csvRecord(row)
		for col, value := range record {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(rowsSheet, cell, value)
		}
	}

	totals := report.Totals
	_ = f.SetCellValue(totalsSheet, "A1", "Total Units")
	_ = f.SetCellValue(totalsSheet, "B1", totals.TotalUnits)
	_ = f.SetCellValue(totalsSheet, "A2", "Occupied Units")
	_ = f.SetCellValue(totalsSheet, "B2", totals.OccupiedUnits)
	_ = f.SetCellValue(totalsSheet, "A3", "Vacant Units")
	_ = f.SetCellValue(totalsSheet, "B3", totals.VacantUnits)
	_ = f.SetCellValue(totalsSheet, "A4", "Occupancy Rate (%)")
	_ = f.SetCellValue(totalsSheet, "B4", totals.OccupancyRate)
	_ = f.SetCellValue(totalsSheet, "A5", "Total Market Rent")
	_ = f.SetCellValue(totalsSheet, "B5", totals.TotalMarketRent)
	_ = f.SetCellValue(totalsSheet, "A6", "Total Lease Rent")
	_ = f.SetCellValue(totalsSheet, "B6", totals.TotalLeaseRent)
	_ = f.SetCellValue(totalsSheet, "A7", "Total Balance")
	_ = f.SetCellValue(totalsSheet, "B7", totals.TotalBalance)
	_ = f.SetCellValue(totalsSheet, "A8", "Current (0-30)")
	_ = f.SetCellValue(totalsSheet, "B8", totals.Aging.Current)
	_ = f.SetCellValue(totalsSheet, "A9", "31-60 Days")
	_ = f.SetCellValue(totalsSheet, "B9", totals.Aging.Days30)
	_ = f.SetCellValue(totalsSheet, "A10", "61-90 Days")
	_ = f.SetCellValue(totalsSheet, "B10", totals.Aging.Days60)
	_ = f.SetCellValue(totalsSheet, "A11", "90+ Days")
	_ = f.SetCellValue(totalsSheet, "B11", totals.Aging.Days90Plus)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}
