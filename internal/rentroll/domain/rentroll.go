package rentroll

import (
	"errors"
	"math"
	"time"

	billing "propfolio-cloud/internal/billing/domain"
)

// StatusFilter narrows rent roll rows by balance status.
type StatusFilter string

const (
	StatusFilterAll     StatusFilter = "all"
	StatusFilterCurrent StatusFilter = "current"
	StatusFilterOverdue StatusFilter = "overdue"
)

// ErrInvalidStatusFilter is returned for unknown status filter values.
var ErrInvalidStatusFilter = errors.New("invalid status filter")

// ParseStatusFilter validates a status query value. Empty means all.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch StatusFilter(raw) {
	case "", StatusFilterAll:
		return StatusFilterAll, nil
	case StatusFilterCurrent:
		return StatusFilterCurrent, nil
	case StatusFilterOverdue:
		return StatusFilterOverdue, nil
	default:
		return "", ErrInvalidStatusFilter
	}
}

// Tenant identifies the renter on an occupied row.
type Tenant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// LastPayment carries the most recent completed payment on a lease.
type LastPayment struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// Row is one unit in a rent roll. Tenant, lease dates and payment fields
// are nil on vacancy rows.
type Row struct {
	PropertyID      string        `json:"property_id"`
	PropertyName    string        `json:"property_name"`
	PropertyAddress string        `json:"property_address"`
	UnitID          string        `json:"unit_id"`
	UnitNumber      string        `json:"unit_number"`
	Bedrooms        int           `json:"bedrooms"`
	Bathrooms       float64       `json:"bathrooms"`
	SquareFeet      int           `json:"square_feet"`
	MarketRent      float64       `json:"market_rent"`
	Occupied        bool          `json:"occupied"`
	PendingInvite   string        `json:"pending_invite,omitempty"`
	LeaseID         string        `json:"lease_id,omitempty"`
	LeaseRent       float64       `json:"lease_rent"`
	LeaseStart      *time.Time    `json:"lease_start,omitempty"`
	LeaseEnd        *time.Time    `json:"lease_end,omitempty"`
	Tenant          *Tenant       `json:"tenant"`
	CurrentBalance  float64       `json:"current_balance"`
	Aging           billing.Aging `json:"aging"`
	LastPayment     *LastPayment  `json:"last_payment,omitempty"`
}

// Status classifies the row for display and CSV export.
func (row Row) Status() string {
	switch {
	case !row.Occupied && row.PendingInvite != "":
		return "PENDING"
	case !row.Occupied:
		return "VACANT"
	case row.CurrentBalance > 0:
		return "OVERDUE"
	default:
		return "OCCUPIED"
	}
}

// Matches reports whether the row passes the status filter.
func (row Row) Matches(filter StatusFilter) bool {
	switch filter {
	case StatusFilterCurrent:
		return row.Occupied && row.CurrentBalance == 0
	case StatusFilterOverdue:
		return row.CurrentBalance > 0
	default:
		return true
	}
}

// Totals aggregates a rent roll across all rows.
type Totals struct {
	TotalUnits      int           `json:"total_units"`
	OccupiedUnits   int           `json:"occupied_units"`
	VacantUnits     int           `json:"vacant_units"`
	OccupancyRate   float64       `json:"occupancy_rate"`
	TotalMarketRent float64       `json:"total_market_rent"`
	TotalLeaseRent  float64       `json:"total_lease_rent"`
	TotalBalance    float64       `json:"total_balance"`
	Aging           billing.Aging `json:"aging"`
}

// Report is the assembled rent roll.
type Report struct {
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}

// ComputeTotals derives portfolio totals from rows. The occupancy rate is
// a percentage rounded to one decimal.
func ComputeTotals(rows []Row) Totals {
	totals := Totals{TotalUnits: len(rows)}
	for _, row := range rows {
		if row.Occupied {
			totals.OccupiedUnits++
		} else {
			totals.VacantUnits++
		}
		totals.TotalMarketRent += row.MarketRent
		totals.TotalLeaseRent += row.LeaseRent
		totals.TotalBalance += row.CurrentBalance
		totals.Aging.Add(row.Aging)
	}
	if totals.TotalUnits > 0 {
		rate := float64(totals.OccupiedUnits) / float64(totals.TotalUnits) * 100
		totals.OccupancyRate = math.Round(rate*10) / 10
	}
	return totals
}

// FilterRows keeps rows passing the status filter.
func FilterRows(rows []Row, filter StatusFilter) []Row {
	if filter == StatusFilterAll || filter == "" {
		return rows
	}
	kept := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Matches(filter) {
			kept = append(kept, row)
		}
	}
	return kept
}
