package rentroll

import (
	"sort"

	billing "propfolio-cloud/internal/billing/domain"
)

// AgingEntry is one tenant's contribution to an aging bucket.
type AgingEntry struct {
	LeaseID      string  `json:"lease_id"`
	TenantName   string  `json:"tenant_name"`
	PropertyName string  `json:"property_name"`
	UnitNumber   string  `json:"unit_number"`
	Amount       float64 `json:"amount"`
}

// AgingReport groups outstanding balances per bucket with tenant detail.
type AgingReport struct {
	Current    []AgingEntry  `json:"current"`
	Days30     []AgingEntry  `json:"days_30"`
	Days60     []AgingEntry  `json:"days_60"`
	Days90Plus []AgingEntry  `json:"days_90_plus"`
	Totals     billing.Aging `json:"totals"`
}

// AddLease distributes one lease's aging into the report buckets.
func (report *AgingReport) AddLease(entry AgingEntry, aging billing.Aging) {
	report.Totals.Add(aging)
	if aging.Current > 0 {
		report.Current = append(report.Current, bucketEntry(entry, aging.Current))
	}
	if aging.Days30 > 0 {
		report.Days30 = append(report.Days30, bucketEntry(entry, aging.Days30))
	}
	if aging.Days60 > 0 {
		report.Days60 = append(report.Days60, bucketEntry(entry, aging.Days60))
	}
	if aging.Days90Plus > 0 {
		report.Days90Plus = append(report.Days90Plus, bucketEntry(entry, aging.Days90Plus))
	}
}

// Sort orders every bucket descending by amount.
func (report *AgingReport) Sort() {
	for _, bucket := range [][]AgingEntry{report.Current, report.Days30, report.Days60, report.Days90Plus} {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Amount > bucket[j].Amount
		})
	}
}

func bucketEntry(entry AgingEntry, amount float64) AgingEntry {
	entry.Amount = amount
	return entry
}
