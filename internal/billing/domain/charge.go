package billing

import "time"

// ChargeType classifies a billable obligation on a lease.
type ChargeType string

const (
	ChargeTypeRent    ChargeType = "RENT"
	ChargeTypeLateFee ChargeType = "LATE_FEE"
	ChargeTypeParking ChargeType = "PARKING"
	ChargeTypePet     ChargeType = "PET"
	ChargeTypeUtility ChargeType = "UTILITY"
	ChargeTypeStorage ChargeType = "STORAGE"
)

// ChargeStatus tracks how much of a charge has been collected.
type ChargeStatus string

const (
	ChargeStatusUnpaid  ChargeStatus = "UNPAID"
	ChargeStatusPartial ChargeStatus = "PARTIAL"
	ChargeStatusPaid    ChargeStatus = "PAID"
)

// RentCharge is a dated billable obligation on a lease. PeriodStart is the
// first day of the billing month and forms the idempotency key together with
// LeaseID and Type; the storage layer enforces uniqueness over the triple.
type RentCharge struct {
	ID          string
	TenantID    string
	LeaseID     string
	PropertyID  string
	UnitID      string
	Type        ChargeType
	Amount      float64
	PaidAmount  float64
	DueDate     time.Time
	PeriodStart time.Time
	Status      ChargeStatus
	CreatedAt   time.Time
}

// Outstanding returns the uncollected portion of the charge.
func (c RentCharge) Outstanding() float64 {
	remaining := c.Amount - c.PaidAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Open reports whether any amount remains uncollected.
func (c RentCharge) Open() bool {
	return c.Status == ChargeStatusUnpaid || c.Status == ChargeStatusPartial
}

// StatusForPaid derives the status PAID/PARTIAL/UNPAID consistent
// with paid vs amount. Callers that mutate PaidAmount must keep
// Status in agreement by assigning through this.
func StatusForPaid(amount, paid float64) ChargeStatus {
	switch {
	case paid <= 0:
		return ChargeStatusUnpaid
	case paid < amount:
		return ChargeStatusPartial
	default:
		return ChargeStatusPaid
	}
}

// ValidCharge validates a charge row before insert.
func ValidCharge(c *RentCharge) error {
	if c == nil {
		return ErrNilCharge
	}
	if c.LeaseID == "" {
		return ErrEmptyLeaseID
	}
	if c.Type == "" {
		return ErrInvalidChargeType
	}
	if c.Amount <= 0 {
		return ErrInvalidAmount
	}
	if c.PaidAmount > c.Amount {
		return ErrInvalidAmount
	}
	return nil
}
