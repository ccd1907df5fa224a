package billing

// RecurringCharge is a lease-level template the charge generator expands into
// one RentCharge per billing month. DayOfMonth selects the due day; zero means
// the first of the month.
type RecurringCharge struct {
	ID         string
	LeaseID    string
	Type       ChargeType
	Amount     float64
	DayOfMonth int
	IsActive   bool
}
