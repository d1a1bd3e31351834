package loan

import "time"

const day = 24 * time.Hour

// Policy is the loan-period and fine configuration. It is read once at
// startup and never changes afterward.
type Policy struct {
	LoanPeriodDays int
	FinePerDay     float64
}

// DefaultPolicy matches the constants the service shipped with.
var DefaultPolicy = Policy{LoanPeriodDays: 14, FinePerDay: 5}

// Due returns the due date for a loan issued at the given time.
func (p Policy) Due(issued time.Time) time.Time {
	return issued.Add(time.Duration(p.LoanPeriodDays) * day)
}

// Lateness reports how overdue ref is relative to due. Partial days round up:
// one hour past due already counts as a full late day. Pure; callers supply
// the reference time.
func (p Policy) Lateness(due, ref time.Time) (isLate bool, daysLate int, fine float64) {
	if !ref.After(due) {
		return false, 0, 0
	}
	daysLate = ceilDays(ref.Sub(due))
	return true, daysLate, float64(daysLate) * p.FinePerDay
}

// ceilDays converts a duration to whole days, rounding away from zero for
// positive remainders and toward zero for negative durations (matching
// integer ceiling).
func ceilDays(d time.Duration) int {
	n := int(d / day)
	if d%day > 0 {
		n++
	}
	return n
}
