package interfaces

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	billing "propfolio-cloud/internal/billing/domain"
	rentroll "propfolio-cloud/internal/rentroll/domain"
)

func sampleRows() []rentroll.Row {
	start := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)
	lastPaid := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	return []rentroll.Row{
		{
			PropertyID:      "prop-1",
			PropertyName:    `Maple "Court", Phase 1`,
			PropertyAddress: "12 Maple St, Springfield, IL 62704",
			UnitID:          "unit-1",
			UnitNumber:      "101",
			Bedrooms:        2,
			Bathrooms:       1.5,
			SquareFeet:      850,
			MarketRent:      1500,
			Occupied:        true,
			LeaseID:         "lease-1",
			LeaseRent:       1450,
			LeaseStart:      &start,
			LeaseEnd:        &end,
			Tenant:          &rentroll.Tenant{Name: "Dana Smith", Email: "dana@example.com", Phone: "555-0101"},
			CurrentBalance:  1450,
			Aging:           billing.Aging{Days30: 1450, TotalDue: 1450},
			LastPayment:     &rentroll.LastPayment{Date: lastPaid, Amount: 1450},
		},
		{
			PropertyID:      "prop-1",
			PropertyName:    `Maple "Court", Phase 1`,
			PropertyAddress: "12 Maple St, Springfield, IL 62704",
			UnitID:          "unit-2",
			UnitNumber:      "102",
			Bedrooms:        1,
			Bathrooms:       1,
			SquareFeet:      600,
			MarketRent:      1100,
			PendingInvite:   "new@example.com",
		},
	}
}

func TestBuildRentRollCSV(t *testing.T) {
	data, err := BuildRentRollCSV(sampleRows())
	if err != nil {
		t.Fatalf("build csv: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	for i, record := range records {
		if len(record) != len(csvHeader) {
			t.Fatalf("record %d has %d fields, want %d", i, len(record), len(csvHeader))
		}
	}
	if records[0][0] != "Property" || records[0][20] != "Last Payment Amount" {
		t.Fatalf("unexpected header %v", records[0])
	}
	wantAging := []string{"Current (0-30)", "31-60 Days", "61-90 Days", "90+ Days"}
	for i, want := range wantAging {
		if got := records[0][15+i]; got != want {
			t.Fatalf("aging column %d is %q, want %q", 15+i, got, want)
		}
	}

	occupied := records[1]
	if occupied[0] != `Maple "Court", Phase 1` {
		t.Fatalf("quoted property name did not round-trip: %q", occupied[0])
	}
	if occupied[3] != "OVERDUE" {
		t.Fatalf("expected OVERDUE status, got %q", occupied[3])
	}
	if occupied[9] != "Dana Smith" || occupied[10] != "dana@example.com" {
		t.Fatalf("unexpected tenant fields %v", occupied[9:12])
	}
	if occupied[12] != "2023-06-01" || occupied[13] != "2025-05-31" {
		t.Fatalf("unexpected lease dates %v", occupied[12:14])
	}
	if occupied[14] != "1450.00" || occupied[16] != "1450.00" {
		t.Fatalf("unexpected balances %v", occupied[14:19])
	}
	if occupied[19] != "2024-05-01" || occupied[20] != "1450.00" {
		t.Fatalf("unexpected last payment %v", occupied[19:])
	}

	vacant := records[2]
	if vacant[3] != "PENDING" {
		t.Fatalf("expected PENDING status for invited vacancy, got %q", vacant[3])
	}
	for _, idx := range []int{9, 10, 11, 12, 13, 19, 20} {
		if vacant[idx] != "" {
			t.Fatalf("expected empty tenant field %d on vacancy row, got %q", idx, vacant[idx])
		}
	}

	// Fields with commas and quotes must be quoted with doubled quotes on the wire.
	raw := string(data)
	if !strings.Contains(raw, `"Maple ""Court"", Phase 1"`) {
		t.Fatalf("expected doubled-quote escaping, got:\n%s", raw)
	}
}

func TestBuildRentRollXLSX(t *testing.T) {
	rows := sampleRows()
	report := &rentroll.Report{Rows: rows, Totals: rentroll.ComputeTotals(rows)}

	data, err := BuildRentRollXLSX(report)
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected workbook bytes")
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(data, []byte{'P', 'K'}) {
		t.Fatalf("expected zip magic, got % x", data[:4])
	}
}
