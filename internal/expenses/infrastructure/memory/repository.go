package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	expenses "propfolio-cloud/internal/expenses/domain"
)

// Repository is an in-memory expense store for tests.
type Repository struct {
	mu   sync.RWMutex
	rows []expenses.Expense
}

// NewRepository constructs an empty repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Create appends one expense.
func (r *Repository) Create(_ context.Context, expense expenses.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, expense)
	return nil
}

// All returns every stored expense ordered by date.
func (r *Repository) All() []expenses.Expense {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := append([]expenses.Expense{}, r.rows...)
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}

// ListCompany returns company-level expenses in the window.
func (r *Repository) ListCompany(_ context.Context, tenantID string, from, to time.Time) ([]expenses.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []expenses.Expense
	for _, expense := range r.rows {
		if expense.TenantID != tenantID || !expense.CompanyLevel() {
			continue
		}
		if inWindow(expense.Date, from, to) {
			result = append(result, expense)
		}
	}
	return result, nil
}

// ListByProperties returns property-level expenses in the window.
func (r *Repository) ListByProperties(_ context.Context, propertyIDs []string, from, to time.Time) ([]expenses.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := map[string]struct{}{}
	for _, id := range propertyIDs {
		wanted[id] = struct{}{}
	}
	var result []expenses.Expense
	for _, expense := range r.rows {
		if _, ok := wanted[expense.PropertyID]; !ok {
			continue
		}
		if inWindow(expense.Date, from, to) {
			result = append(result, expense)
		}
	}
	return result, nil
}

func inWindow(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}
