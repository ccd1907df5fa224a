package billing

import "time"

// PaymentStatus tracks the lifecycle of a legacy payment record.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusOverdue   PaymentStatus = "OVERDUE"
)

// Payment is the legacy record of a rent collection event, predating
// rent_charges. It is only consulted for leases with no charge rows;
// when both exist the charge rows take precedence.
type Payment struct {
	ID       string
	TenantID string
	LeaseID  string
	Amount   float64
	DueDate  time.Time
	PaidDate *time.Time
	Status   PaymentStatus
}

// Open reports whether the payment still represents money owed.
func (p Payment) Open() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusOverdue
}

// Completed reports whether the payment was collected.
func (p Payment) Completed() bool {
	return p.Status == PaymentStatusPaid || p.Status == PaymentStatusCompleted
}
