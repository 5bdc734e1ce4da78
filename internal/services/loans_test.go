package services

import (
	"testing"
	"time"

	"ledgerdash/internal/core"
)

var now = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func deadline(offset time.Duration) *time.Time {
	d := now.Add(offset)
	return &d
}

func TestComputeLoanMetrics(t *testing.T) {
	tests := []struct {
		name          string
		loan          core.Loan
		remaining     int64
		percent       float64
		sinceCreated  int
		untilDeadline *int
		overdue       bool
		fullyRepaid   bool
	}{
		{
			name: "overdue partial repayment",
			loan: core.Loan{
				Principal: core.Cents(10000), Repaid: core.Cents(4000),
				CreatedAt: now.Add(-10 * day), Deadline: deadline(-5 * day),
			},
			remaining: 6000, percent: 40, sinceCreated: 10, untilDeadline: intPtr(-5), overdue: true,
		},
		{
			name: "deadline later today rounds up",
			loan: core.Loan{
				Principal: core.Cents(300), Repaid: core.Cents(100),
				CreatedAt: now.Add(-36 * time.Hour), Deadline: deadline(2 * time.Hour),
			},
			remaining: 200, percent: 33.33, sinceCreated: 1, untilDeadline: intPtr(1),
		},
		{
			name:      "no deadline",
			loan:      core.Loan{Principal: core.Cents(5000), CreatedAt: now},
			remaining: 5000, percent: 0, sinceCreated: 0,
		},
		{
			name: "fully repaid",
			loan: core.Loan{
				Principal: core.Cents(5000), Repaid: core.Cents(5000), Status: core.LoanRepaid,
				CreatedAt: now.Add(-3 * day),
			},
			remaining: 0, percent: 100, sinceCreated: 3, fullyRepaid: true,
		},
		{
			name:      "zero principal",
			loan:      core.Loan{CreatedAt: now},
			remaining: 0, percent: 0, fullyRepaid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeLoanMetrics(tt.loan, now)
			if m.Remaining.Cents != tt.remaining {
				t.Errorf("Remaining = %d, want %d", m.Remaining.Cents, tt.remaining)
			}
			if m.PercentRepaid != tt.percent {
				t.Errorf("PercentRepaid = %v, want %v", m.PercentRepaid, tt.percent)
			}
			if m.DaysSinceCreated != tt.sinceCreated {
				t.Errorf("DaysSinceCreated = %d, want %d", m.DaysSinceCreated, tt.sinceCreated)
			}
			switch {
			case tt.untilDeadline == nil && m.DaysUntilDeadline != nil:
				t.Errorf("DaysUntilDeadline = %d, want nil", *m.DaysUntilDeadline)
			case tt.untilDeadline != nil && (m.DaysUntilDeadline == nil || *m.DaysUntilDeadline != *tt.untilDeadline):
				t.Errorf("DaysUntilDeadline = %v, want %d", m.DaysUntilDeadline, *tt.untilDeadline)
			}
			if m.Overdue != tt.overdue {
				t.Errorf("Overdue = %v, want %v", m.Overdue, tt.overdue)
			}
			if m.FullyRepaid != tt.fullyRepaid {
				t.Errorf("FullyRepaid = %v, want %v", m.FullyRepaid, tt.fullyRepaid)
			}
		})
	}
}

func intPtr(i int) *int { return &i }

func TestDayRounding(t *testing.T) {
	tests := []struct {
		d           time.Duration
		floor, ceil int
	}{
		{0, 0, 0},
		{23 * time.Hour, 0, 1},
		{day, 1, 1},
		{-time.Hour, -1, 0},
		{-day, -1, -1},
		{-25 * time.Hour, -2, -1},
	}
	for _, tt := range tests {
		if got := floorDays(tt.d); got != tt.floor {
			t.Errorf("floorDays(%v) = %d, want %d", tt.d, got, tt.floor)
		}
		if got := ceilDays(tt.d); got != tt.ceil {
			t.Errorf("ceilDays(%v) = %d, want %d", tt.d, got, tt.ceil)
		}
	}
}

func TestNetPositionAndCounts(t *testing.T) {
	loans := []core.Loan{
		{ID: "1", Principal: core.Cents(10000), Repaid: core.Cents(2500), LenderID: "alice", BorrowerID: "bob", CreatedAt: now, Deadline: deadline(-day)},
		{ID: "2", Principal: core.Cents(4000), LenderID: "carol", BorrowerID: "alice", CreatedAt: now, Deadline: deadline(10 * day)},
		{ID: "3", Principal: core.Cents(800), Repaid: core.Cents(800), Status: core.LoanRepaid, LenderID: "alice", BorrowerID: "dave", CreatedAt: now},
		{ID: "4", Principal: core.Cents(999), LenderID: "bob", BorrowerID: "carol", CreatedAt: now},
	}

	p := NetPosition(loans, "alice")
	if p.Lent.Cents != 7500 || p.Borrowed.Cents != 4000 || p.Net.Cents != 3500 {
		t.Errorf("NetPosition() = %+v", p)
	}

	totals := CountLoans(loans, now)
	if totals != (LoanTotals{Active: 3, Repaid: 1, Overdue: 1}) {
		t.Errorf("CountLoans() = %+v", totals)
	}

	if RoleOf(loans[3], "alice") != RoleNone || RoleOf(loans[0], "bob") != RoleBorrower {
		t.Errorf("RoleOf() mismatch")
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		part, whole int64
		want        float64
	}{
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 0, 0},
		{5, -10, 0},
		{150, 100, 150},
		{999999, 1000000, 99.99},
		{1000000, 1000000, 100},
	}
	for _, tt := range tests {
		if got := Percent(core.Cents(tt.part), core.Cents(tt.whole)); got != tt.want {
			t.Errorf("Percent(%d, %d) = %v, want %v", tt.part, tt.whole, got, tt.want)
		}
	}
}
