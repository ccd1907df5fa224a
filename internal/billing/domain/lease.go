package billing

import "time"

const (
	LeaseStatusActive     = "ACTIVE"
	LeaseStatusEnded      = "ENDED"
	LeaseStatusTerminated = "TERMINATED"
)

// Lease binds a renter to a unit for a rent amount over a date range.
// An open-ended lease has a nil EndDate.
type Lease struct {
	ID           string
	TenantID     string
	PropertyID   string
	UnitID       string
	RenterUserID string
	RenterName   string
	RenterEmail  string
	RenterPhone  string
	RentAmount   float64
	Deposit      float64
	StartDate    time.Time
	EndDate      *time.Time
	Status       string
}

// Active reports whether the lease is in ACTIVE status.
func (l Lease) Active() bool { return l.Status == LeaseStatusActive }

// Covers reports whether the lease interval [StartDate, EndDate|∞] contains day.
func (l Lease) Covers(day time.Time) bool {
	if day.Before(l.StartDate) {
		return false
	}
	if l.EndDate != nil && day.After(*l.EndDate) {
		return false
	}
	return true
}
