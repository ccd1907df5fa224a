package reports

import "time"

// RevenueBreakdown splits paid invoice revenue by line item type.
type RevenueBreakdown struct {
	ManagementFees float64 `json:"management_fees"`
	FlatFees       float64 `json:"flat_fees"`
	Other          float64 `json:"other"`
	Total          float64 `json:"total"`
}

// TrendPoint is one month of the trailing revenue trend.
type TrendPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// OwnerRevenue is one owner's share of company revenue.
type OwnerRevenue struct {
	OwnerID   string  `json:"owner_id"`
	OwnerName string  `json:"owner_name"`
	Revenue   float64 `json:"revenue"`
}

// CompanyReport is the management company P&L.
type CompanyReport struct {
	Period        Period             `json:"period"`
	Revenue       RevenueBreakdown   `json:"revenue"`
	Expenses      map[string]float64 `json:"expenses"`
	TotalExpenses float64            `json:"total_expenses"`
	NetIncome     float64            `json:"net_income"`
	ProfitMargin  float64            `json:"profit_margin"`
	Trend         []TrendPoint       `json:"trend"`
	ByOwner       []OwnerRevenue     `json:"by_owner"`
}

// PropertyBreakdown is one property's slice of an owner report.
type PropertyBreakdown struct {
	PropertyID   string  `json:"property_id"`
	PropertyName string  `json:"property_name"`
	Income       float64 `json:"income"`
	Expenses     float64 `json:"expenses"`
	NetIncome    float64 `json:"net_income"`
}

// OwnerReport is one owner's P&L across their properties.
type OwnerReport struct {
	Period         Period              `json:"period"`
	OwnerID        string              `json:"owner_id"`
	RentIncome     float64             `json:"rent_income"`
	LateFees       float64             `json:"late_fees"`
	TotalIncome    float64             `json:"total_income"`
	Expenses       map[string]float64  `json:"expenses"`
	ManagementFees float64             `json:"management_fees"`
	TotalExpenses  float64             `json:"total_expenses"`
	NetIncome      float64             `json:"net_income"`
	ProfitMargin   float64             `json:"profit_margin"`
	Properties     []PropertyBreakdown `json:"properties"`
}

// UnitIncome is one unit's income contribution within a property report.
type UnitIncome struct {
	UnitID     string  `json:"unit_id"`
	UnitNumber string  `json:"unit_number"`
	Income     float64 `json:"income"`
}

// ExpenseDetail is one expense row in a property report, newest first.
type ExpenseDetail struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

// PropertyReport is a single property's P&L with unit detail.
type PropertyReport struct {
	Period        Period             `json:"period"`
	PropertyID    string             `json:"property_id"`
	PropertyName  string             `json:"property_name"`
	RentIncome    float64            `json:"rent_income"`
	LateFees      float64            `json:"late_fees"`
	TotalIncome   float64            `json:"total_income"`
	Expenses      map[string]float64 `json:"expenses"`
	TotalExpenses float64            `json:"total_expenses"`
	NetIncome     float64            `json:"net_income"`
	ProfitMargin  float64            `json:"profit_margin"`
	Units         []UnitIncome       `json:"units"`
	ExpenseDetail []ExpenseDetail    `json:"expense_detail"`
	OccupancyRate float64            `json:"occupancy_rate"`
	VacancyLoss   float64            `json:"vacancy_loss"`
}

// FinancialSummary is the one-month occupancy and collection snapshot for
// a property.
type FinancialSummary struct {
	PropertyID         string  `json:"property_id"`
	Month              string  `json:"month"`
	TotalUnits         int     `json:"total_units"`
	OccupiedUnits      int     `json:"occupied_units"`
	VacantUnits        int     `json:"vacant_units"`
	OccupancyRate      float64 `json:"occupancy_rate"`
	RentBilled         float64 `json:"rent_billed"`
	RentCollected      float64 `json:"rent_collected"`
	CollectionRate     float64 `json:"collection_rate"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	VacancyLoss        float64 `json:"vacancy_loss"`
}
