package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	reports "propfolio-cloud/internal/reports/domain"
)

// Reader implements the report read models with direct SQL. Reports only
// ever read, so there is no domain repository behind this.
type Reader struct {
	db *sql.DB
}

// NewReader constructs a reader.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// ListPaidLineItems returns line items of invoices paid inside the
// period, newest invoices first. Empty ownerID means all owners.
func (r *Reader) ListPaidLineItems(ctx context.Context, tenantID, ownerID string, period reports.Period) ([]reports.PaidLineItem, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("report reader: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT li.invoice_id, i.owner_id, COALESCE(u.name, ''), li.item_type, li.description, li.amount, i.paid_date
FROM invoice_line_items li
JOIN invoices i ON i.id = li.invoice_id
LEFT JOIN users u ON u.id = i.owner_id
WHERE i.tenant_id = $1
	AND i.status = 'PAID'
	AND i.paid_date >= $2
	AND i.paid_date <= $3
	AND ($4 = '' OR i.owner_id = $4)
ORDER BY i.paid_date DESC, li.id ASC`, tenantID, period.Start, period.End, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []reports.PaidLineItem
	for rows.Next() {
		var item reports.PaidLineItem
		err := rows.Scan(
			&item.InvoiceID,
			&item.OwnerID,
			&item.OwnerName,
			&item.Type,
			&item.Description,
			&item.Amount,
			&item.PaidDate,
		)
		if err != nil {
			return nil, err
		}
		item.PaidDate = item.PaidDate.UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListIncome returns realized income for the properties: completed legacy
// payments plus the paid portion of PAID and PARTIAL rent charges. The two
// sources are queried separately and merged.
func (r *Reader) ListIncome(ctx context.Context, propertyIDs []string, period reports.Period) ([]reports.IncomeItem, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("report reader: nil db")
	}
	if len(propertyIDs) == 0 {
		return nil, nil
	}

	payments, err := r.listPaymentIncome(ctx, propertyIDs, period)
	if err != nil {
		return nil, err
	}
	charges, err := r.listChargeIncome(ctx, propertyIDs, period)
	if err != nil {
		return nil, err
	}
	return append(payments, charges...), nil
}

func (r *Reader) listPaymentIncome(ctx context.Context, propertyIDs []string, period reports.Period) ([]reports.IncomeItem, error) {
	placeholders, args := inArgs(propertyIDs, 3, period.Start, period.End)
	rows, err := r.db.QueryContext(ctx, `
SELECT l.id, l.unit_id, l.property_id, p.amount, COALESCE(p.paid_date, p.due_date)
FROM payments p
JOIN leases l ON l.id = p.lease_id
WHERE p.status IN ('PAID', 'COMPLETED')
	AND COALESCE(p.paid_date, p.due_date) >= $1
	AND COALESCE(p.paid_date, p.due_date) <= $2
	AND l.property_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIncome(rows)
}

func (r *Reader) listChargeIncome(ctx context.Context, propertyIDs []string, period reports.Period) ([]reports.IncomeItem, error) {
	placeholders, args := inArgs(propertyIDs, 3, period.Start, period.End)
	rows, err := r.db.QueryContext(ctx, `
SELECT l.id, l.unit_id, l.property_id, c.paid_amount, c.due_date, c.charge_type
FROM rent_charges c
JOIN leases l ON l.id = c.lease_id
WHERE c.status IN ('PAID', 'PARTIAL')
	AND c.paid_amount > 0
	AND c.due_date >= $1
	AND c.due_date <= $2
	AND l.property_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []reports.IncomeItem
	for rows.Next() {
		var item reports.IncomeItem
		var chargeType string
		err := rows.Scan(&item.LeaseID, &item.UnitID, &item.PropertyID, &item.Amount, &item.Date, &chargeType)
		if err != nil {
			return nil, err
		}
		item.Date = item.Date.UTC()
		item.LateFee = chargeType == "LATE_FEE"
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MonthlyChargeTotals sums billing for one property and month.
func (r *Reader) MonthlyChargeTotals(ctx context.Context, propertyID string, monthStart time.Time) (reports.ChargeTotals, error) {
	if r == nil || r.db == nil {
		return reports.ChargeTotals{}, errors.New("report reader: nil db")
	}
	var totals reports.ChargeTotals
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(c.amount), 0), COALESCE(SUM(c.paid_amount), 0)
FROM rent_charges c
JOIN leases l ON l.id = c.lease_id
WHERE l.property_id = $1
	AND c.period_start = $2`, propertyID, monthStart.UTC()).Scan(&totals.Billed, &totals.Collected)
	if err != nil {
		return reports.ChargeTotals{}, err
	}
	totals.Outstanding = totals.Billed - totals.Collected
	return totals, nil
}

func inArgs(ids []string, firstPlaceholder int, leading ...any) (string, []any) {
	placeholders := make([]string, len(ids))
	args := append([]any{}, leading...)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", firstPlaceholder+i)
		args = append(args, id)
	}
	return strings.Join(placeholders, ", "), args
}

func scanIncome(rows *sql.Rows) ([]reports.IncomeItem, error) {
	var result []reports.IncomeItem
	for rows.Next() {
		var item reports.IncomeItem
		err := rows.Scan(&item.LeaseID, &item.UnitID, &item.PropertyID, &item.Amount, &item.Date)
		if err != nil {
			return nil, err
		}
		item.Date = item.Date.UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
