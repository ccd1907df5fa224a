package billing

import "time"

// Aging buckets an outstanding balance by how overdue it is relative to a
// reference date. Amounts due within 30 days of the reference date (including
// not-yet-due amounts) land in Current; the remaining buckets cover 31-60,
// 61-90 and over 90 days past due.
type Aging struct {
	Current    float64 `json:"current"`
	Days30     float64 `json:"days_30"`
	Days60     float64 `json:"days_60"`
	Days90Plus float64 `json:"days_90_plus"`
	TotalDue   float64 `json:"total_due"`
}

// Add accumulates another aging result bucket by bucket.
func (a *Aging) Add(other Aging) {
	a.Current += other.Current
	a.Days30 += other.Days30
	a.Days60 += other.Days60
	a.Days90Plus += other.Days90Plus
	a.TotalDue += other.TotalDue
}

// AgingSnapshot is an optional precomputed aging row for a lease. When one
// exists it is authoritative and bypasses live recomputation.
type AgingSnapshot struct {
	LeaseID    string
	Current    float64
	Days30     float64
	Days60     float64
	Days90Plus float64
	TotalDue   float64
	ComputedAt time.Time
}

// Aging converts the snapshot into an aging result verbatim.
func (s AgingSnapshot) Aging() Aging {
	return Aging{
		Current:    s.Current,
		Days30:     s.Days30,
		Days60:     s.Days60,
		Days90Plus: s.Days90Plus,
		TotalDue:   s.TotalDue,
	}
}

// Obligation is a single dated amount owed, abstracting over the two backing
// record kinds (rent charges and legacy payments) so aging is computed in one
// place for every call site.
type Obligation struct {
	Amount  float64
	DueDate time.Time
}

// ObligationsFromCharges extracts open obligations from charge rows,
// contributing the uncollected portion of each.
func ObligationsFromCharges(charges []RentCharge) []Obligation {
	var out []Obligation
	for _, c := range charges {
		if !c.Open() {
			continue
		}
		out = append(out, Obligation{Amount: c.Outstanding(), DueDate: c.DueDate})
	}
	return out
}

// ObligationsFromPayments extracts open obligations from legacy payment rows,
// contributing the full amount of each.
func ObligationsFromPayments(payments []Payment) []Obligation {
	var out []Obligation
	for _, p := range payments {
		if !p.Open() {
			continue
		}
		out = append(out, Obligation{Amount: p.Amount, DueDate: p.DueDate})
	}
	return out
}

// SelectObligations applies the source precedence rule: any open charge rows
// in scope means charges are the only source; legacy payments are consulted
// only when zero open charge rows exist. Mixing the two would double count.
func SelectObligations(charges []RentCharge, payments []Payment) []Obligation {
	if obligations := ObligationsFromCharges(charges); len(obligations) > 0 {
		return obligations
	}
	return ObligationsFromPayments(payments)
}

// DaysPastDue returns whole days between due date and the reference date;
// negative when the obligation is not yet due.
func DaysPastDue(ref, due time.Time) int {
	return int(ref.Sub(due).Hours() / 24)
}

// ComputeAging buckets obligations against a reference date.
func ComputeAging(ref time.Time, obligations []Obligation) Aging {
	var aging Aging
	for _, o := range obligations {
		days := DaysPastDue(ref, o.DueDate)
		switch {
		case days <= 30:
			aging.Current += o.Amount
		case days <= 60:
			aging.Days30 += o.Amount
		case days <= 90:
			aging.Days60 += o.Amount
		default:
			aging.Days90Plus += o.Amount
		}
		aging.TotalDue += o.Amount
	}
	return aging
}
