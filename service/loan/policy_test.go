package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLateness_Ceiling(t *testing.T) {
	p := Policy{LoanPeriodDays: 14, FinePerDay: 5}
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		ref      time.Time
		isLate   bool
		daysLate int
		fine     float64
	}{
		{"on time", due, false, 0, 0},
		{"one hour early", due.Add(-time.Hour), false, 0, 0},
		{"one hour late counts a full day", due.Add(time.Hour), true, 1, 5},
		{"exactly one day", due.Add(24 * time.Hour), true, 1, 5},
		{"one day one second", due.Add(24*time.Hour + time.Second), true, 2, 10},
		{"exactly two days", due.Add(48 * time.Hour), true, 2, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isLate, daysLate, fine := p.Lateness(due, tc.ref)
			require.Equal(t, tc.isLate, isLate)
			require.Equal(t, tc.daysLate, daysLate)
			require.Equal(t, tc.fine, fine)
		})
	}
}

func TestLateness_Deterministic(t *testing.T) {
	p := DefaultPolicy
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ref := due.Add(30 * time.Hour)

	_, d1, f1 := p.Lateness(due, ref)
	_, d2, f2 := p.Lateness(due, ref)
	require.Equal(t, d1, d2)
	require.Equal(t, f1, f2)
}

func TestDue(t *testing.T) {
	p := Policy{LoanPeriodDays: 14, FinePerDay: 5}
	issued := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	require.Equal(t, issued.Add(14*24*time.Hour), p.Due(issued))
}
