package reports

import (
	"context"
	"time"
)

// Invoice line item types that get their own revenue bucket.
const (
	LineItemManagementFee = "management_fee"
	LineItemFlatFee       = "flat_fee"
)

// PaidLineItem is one line of a PAID invoice, dated by the invoice's paid
// date.
type PaidLineItem struct {
	InvoiceID   string
	OwnerID     string
	OwnerName   string
	Type        string
	Description string
	Amount      float64
	PaidDate    time.Time
}

// InvoiceReader loads paid invoice lines for revenue aggregation.
type InvoiceReader interface {
	// ListPaidLineItems returns lines of invoices paid within the period,
	// optionally restricted to one owner. Empty ownerID means all owners.
	ListPaidLineItems(ctx context.Context, tenantID, ownerID string, period Period) ([]PaidLineItem, error)
}

// IncomeItem is one realized income event: a completed legacy payment or
// the paid portion of a rent charge.
type IncomeItem struct {
	LeaseID    string
	UnitID     string
	PropertyID string
	Amount     float64
	LateFee    bool
	Date       time.Time
}

// IncomeReader loads realized income for a set of properties.
type IncomeReader interface {
	ListIncome(ctx context.Context, propertyIDs []string, period Period) ([]IncomeItem, error)
}

// ChargeTotals aggregates one property's billing for a month.
type ChargeTotals struct {
	Billed      float64
	Collected   float64
	Outstanding float64
}

// SummaryReader loads monthly charge totals for the financial summary.
type SummaryReader interface {
	MonthlyChargeTotals(ctx context.Context, propertyID string, monthStart time.Time) (ChargeTotals, error)
}
