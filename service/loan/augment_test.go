package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yogeshtripathi1231/library/model"
)

var testPolicy = Policy{LoanPeriodDays: 14, FinePerDay: 5}

func issuedRequest(issued time.Time, p Policy) *model.LoanRequest {
	due := p.Due(issued)
	return &model.LoanRequest{
		ID:        1,
		Status:    model.StatusIssued,
		IssueDate: &issued,
		DueDate:   &due,
	}
}

func TestAugment_IssuedDueSoon(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r := issuedRequest(t0, testPolicy)

	// 13 days in: one day left on a 14 day loan.
	now := t0.Add(13 * 24 * time.Hour)
	Augment(r, now, testPolicy)

	require.NotNil(t, r.Computed)
	require.NotNil(t, r.Computed.DaysUntilDue)
	require.Equal(t, 1, *r.Computed.DaysUntilDue)
	require.True(t, r.Computed.NotifySoon)
	require.False(t, r.Computed.IsLate)
	require.Equal(t, 0, r.Computed.DaysLate)
	require.Equal(t, float64(0), r.Computed.FineDue)
}

func TestAugment_IssuedOverdue(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r := issuedRequest(t0, testPolicy)

	now := t0.Add(16 * 24 * time.Hour)
	Augment(r, now, testPolicy)

	require.NotNil(t, r.Computed)
	require.True(t, r.Computed.IsLate)
	require.Equal(t, 2, r.Computed.DaysLate)
	require.Equal(t, float64(10), r.Computed.FineDue)
	require.Equal(t, -2, *r.Computed.DaysUntilDue)
	require.False(t, r.Computed.NotifySoon)
}

func TestAugment_IssuedNoDueDate(t *testing.T) {
	r := &model.LoanRequest{ID: 1, Status: model.StatusIssued}
	Augment(r, time.Now(), testPolicy)
	require.Nil(t, r.Computed)
}

func TestAugment_ReturnedPersistedFineWins(t *testing.T) {
	due := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	ret := due.Add(2 * 24 * time.Hour)
	r := &model.LoanRequest{
		ID:         1,
		Status:     model.StatusReturned,
		DueDate:    &due,
		ReturnDate: &ret,
		Fine:       25, // snapshot from an earlier policy
	}
	Augment(r, ret.Add(100*24*time.Hour), testPolicy)

	require.NotNil(t, r.Computed)
	require.True(t, r.Computed.IsLate)
	require.Equal(t, 2, r.Computed.DaysLate)
	// The stored fine beats the 2*5 recomputation.
	require.Equal(t, float64(25), r.Computed.FineDue)
}

func TestAugment_ReturnedZeroFineFallsBack(t *testing.T) {
	due := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	ret := due.Add(3 * 24 * time.Hour)
	r := &model.LoanRequest{
		ID:         1,
		Status:     model.StatusReturned,
		DueDate:    &due,
		ReturnDate: &ret,
		Fine:       0,
	}
	Augment(r, ret, testPolicy)

	require.NotNil(t, r.Computed)
	require.Equal(t, 3, r.Computed.DaysLate)
	require.Equal(t, float64(15), r.Computed.FineDue)
}

func TestAugment_ReturnedWithoutDates(t *testing.T) {
	r := &model.LoanRequest{ID: 1, Status: model.StatusReturned, Fine: 40}
	Augment(r, time.Now(), testPolicy)

	require.NotNil(t, r.Computed)
	require.False(t, r.Computed.IsLate)
	require.Equal(t, 0, r.Computed.DaysLate)
	require.Equal(t, float64(40), r.Computed.FineDue)
}

func TestAugment_OtherStatusesUntouched(t *testing.T) {
	for _, st := range []model.Status{model.StatusPending, model.StatusApproved, model.StatusRejected} {
		r := &model.LoanRequest{ID: 1, Status: st}
		Augment(r, time.Now(), testPolicy)
		require.Nil(t, r.Computed, "status %s", st)
	}
}

func TestAugment_Idempotent(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now := t0.Add(10 * 24 * time.Hour)

	a := issuedRequest(t0, testPolicy)
	b := issuedRequest(t0, testPolicy)

	Augment(a, now, testPolicy)
	Augment(b, now, testPolicy)
	Augment(b, now, testPolicy)

	require.Equal(t, *a.Computed.DaysUntilDue, *b.Computed.DaysUntilDue)
	require.Equal(t, a.Computed, b.Computed)
}
