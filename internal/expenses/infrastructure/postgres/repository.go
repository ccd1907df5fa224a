package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	expenses "propfolio-cloud/internal/expenses/domain"
)

const expenseColumns = `
id, tenant_id, COALESCE(property_id, ''), category, description, vendor, amount, expense_date, created_at`

// Repository is a Postgres implementation for expenses.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one expense row. An empty PropertyID stores NULL.
func (r *Repository) Create(ctx context.Context, expense expenses.Expense) error {
	if r == nil || r.db == nil {
		return errors.New("expense repo: nil db")
	}
	var propertyID any
	if expense.PropertyID != "" {
		propertyID = expense.PropertyID
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO expenses (
	id, tenant_id, property_id, category, description, vendor, amount, expense_date, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		expense.ID,
		expense.TenantID,
		propertyID,
		expense.Category,
		expense.Description,
		expense.Vendor,
		expense.Amount,
		expense.Date.UTC(),
		expense.CreatedAt.UTC(),
	)
	return err
}

// ListCompany returns company-level expenses in the window.
func (r *Repository) ListCompany(ctx context.Context, tenantID string, from, to time.Time) ([]expenses.Expense, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("expense repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+expenseColumns+`
FROM expenses
WHERE tenant_id = $1
	AND property_id IS NULL
	AND expense_date >= $2
	AND expense_date <= $3
ORDER BY expense_date ASC, id ASC`, tenantID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// ListByProperties returns property-level expenses in the window.
func (r *Repository) ListByProperties(ctx context.Context, propertyIDs []string, from, to time.Time) ([]expenses.Expense, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("expense repo: nil db")
	}
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(propertyIDs))
	args := []any{from.UTC(), to.UTC()}
	for i, id := range propertyIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+3)
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+expenseColumns+`
FROM expenses
WHERE expense_date >= $1
	AND expense_date <= $2
	AND property_id IN (`+strings.Join(placeholders, ", ")+`)
ORDER BY expense_date ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func scanExpenses(rows *sql.Rows) ([]expenses.Expense, error) {
	var result []expenses.Expense
	for rows.Next() {
		var expense expenses.Expense
		err := rows.Scan(
			&expense.ID,
			&expense.TenantID,
			&expense.PropertyID,
			&expense.Category,
			&expense.Description,
			&expense.Vendor,
			&expense.Amount,
			&expense.Date,
			&expense.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		expense.Date = expense.Date.UTC()
		expense.CreatedAt = expense.CreatedAt.UTC()
		result = append(result, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
