package expenses

import (
	"context"
	"time"
)

// Repository persists and loads expense rows.
type Repository interface {
	Create(ctx context.Context, expense Expense) error
	// ListCompany returns company-level expenses (no property) dated within
	// [from, to].
	ListCompany(ctx context.Context, tenantID string, from, to time.Time) ([]Expense, error)
	// ListByProperties returns property-level expenses for the given
	// properties dated within [from, to].
	ListByProperties(ctx context.Context, propertyIDs []string, from, to time.Time) ([]Expense, error)
}
