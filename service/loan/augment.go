package loan

import (
	"time"

	"github.com/yogeshtripathi1231/library/model"
)

// Augment attaches the derived, read-only fields to a fetched request without
// touching the stored record. The same function serves the user listing and
// the admin listing, and it is idempotent for a fixed now.
func Augment(r *model.LoanRequest, now time.Time, p Policy) {
	switch r.Status {
	case model.StatusIssued:
		if r.DueDate == nil {
			return
		}
		due := *r.DueDate
		daysUntil := ceilDays(due.Sub(now))
		c := &model.Computed{
			DaysUntilDue: &daysUntil,
			NotifySoon:   daysUntil >= 0 && daysUntil <= 2,
			IsLate:       now.After(due),
		}
		if c.IsLate {
			_, c.DaysLate, c.FineDue = p.Lateness(due, now)
		}
		r.Computed = c

	case model.StatusReturned:
		c := &model.Computed{}
		if r.DueDate != nil && r.ReturnDate != nil {
			isLate, daysLate, fine := p.Lateness(*r.DueDate, *r.ReturnDate)
			c.IsLate = isLate
			c.DaysLate = daysLate
			// The fine snapshotted at return wins; the recomputation is
			// only a fallback for rows persisted without one.
			c.FineDue = r.Fine
			if c.FineDue == 0 {
				c.FineDue = fine
			}
		} else {
			c.FineDue = r.Fine
		}
		r.Computed = c
	}
}
