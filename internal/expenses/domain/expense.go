package expenses

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidAmount   = errors.New("expense amount must be positive")
	ErrInvalidCategory = errors.New("invalid expense category")
	ErrInvalidDate     = errors.New("invalid expense date")
)

// Expense is a cost row. PropertyID is empty for company-level expenses
// and set for property-level ones.
type Expense struct {
	ID          string
	TenantID    string
	PropertyID  string
	Category    string
	Description string
	Vendor      string
	Amount      float64
	Date        time.Time
	CreatedAt   time.Time
}

// CompanyLevel reports whether the expense belongs to the management
// company rather than a property.
func (e Expense) CompanyLevel() bool {
	return e.PropertyID == ""
}

// Validate checks the fields every write path requires.
func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrInvalidCategory
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
