package memory

import (
	"context"
	"sync"
	"time"

	reports "propfolio-cloud/internal/reports/domain"
)

// Reader is an in-memory report read model for tests.
type Reader struct {
	mu        sync.RWMutex
	lineItems []lineItem
	income    []reports.IncomeItem
	totals    map[summaryKey]reports.ChargeTotals
}

type lineItem struct {
	tenantID string
	item     reports.PaidLineItem
}

type summaryKey struct {
	propertyID string
	monthStart time.Time
}

// NewReader constructs an empty reader.
func NewReader() *Reader {
	return &Reader{totals: map[summaryKey]reports.ChargeTotals{}}
}

// PutLineItem seeds a paid invoice line.
func (r *Reader) PutLineItem(tenantID string, item reports.PaidLineItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lineItems = append(r.lineItems, lineItem{tenantID: tenantID, item: item})
}

// PutIncome seeds an income item.
func (r *Reader) PutIncome(item reports.IncomeItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.income = append(r.income, item)
}

// PutChargeTotals seeds monthly totals for a property.
func (r *Reader) PutChargeTotals(propertyID string, monthStart time.Time, totals reports.ChargeTotals) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals[summaryKey{propertyID: propertyID, monthStart: monthStart.UTC()}] = totals
}

// ListPaidLineItems returns seeded lines paid inside the period.
func (r *Reader) ListPaidLineItems(_ context.Context, tenantID, ownerID string, period reports.Period) ([]reports.PaidLineItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []reports.PaidLineItem
	for _, entry := range r.lineItems {
		if entry.tenantID != tenantID {
			continue
		}
		if ownerID != "" && entry.item.OwnerID != ownerID {
			continue
		}
		if period.Contains(entry.item.PaidDate) {
			result = append(result, entry.item)
		}
	}
	return result, nil
}

// ListIncome returns seeded income for the properties inside the period.
func (r *Reader) ListIncome(_ context.Context, propertyIDs []string, period reports.Period) ([]reports.IncomeItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := map[string]struct{}{}
	for _, id := range propertyIDs {
		wanted[id] = struct{}{}
	}
	var result []reports.IncomeItem
	for _, item := range r.income {
		if _, ok := wanted[item.PropertyID]; !ok {
			continue
		}
		if period.Contains(item.Date) {
			result = append(result, item)
		}
	}
	return result, nil
}

// MonthlyChargeTotals returns seeded totals, zero when absent.
func (r *Reader) MonthlyChargeTotals(_ context.Context, propertyID string, monthStart time.Time) (reports.ChargeTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totals[summaryKey{propertyID: propertyID, monthStart: monthStart.UTC()}], nil
}
