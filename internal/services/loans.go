package services

import (
	"time"

	"github.com/shopspring/decimal"

	"ledgerdash/internal/core"
)

const day = 24 * time.Hour

// LoanRole is the viewer's side of a loan.
type LoanRole string

const (
	RoleLender   LoanRole = "lent"
	RoleBorrower LoanRole = "borrowed"
	RoleNone     LoanRole = ""
)

// LoanMetrics are the derived figures shown on a debt card.
type LoanMetrics struct {
	Remaining         core.Money `json:"remaining"`
	PercentRepaid     float64    `json:"percent_repaid"`
	DaysSinceCreated  int        `json:"days_since_created"`
	DaysUntilDeadline *int       `json:"days_until_deadline,omitempty"`
	Overdue           bool       `json:"overdue"`
	FullyRepaid       bool       `json:"fully_repaid"`
}

// LoanTotals counts loans by state for the debt overview.
type LoanTotals struct {
	Active  int `json:"active"`
	Repaid  int `json:"repaid"`
	Overdue int `json:"overdue"`
}

// ComputeLoanMetrics derives the card figures for loan at now. A zero
// principal yields 0% repaid.
func ComputeLoanMetrics(loan core.Loan, now time.Time) LoanMetrics {
	remaining := loan.Remaining()
	m := LoanMetrics{
		Remaining:        remaining,
		PercentRepaid:    Percent(loan.Repaid, loan.Principal),
		DaysSinceCreated: floorDays(now.Sub(loan.CreatedAt)),
		FullyRepaid:      remaining.Cents <= 0 || loan.Status == core.LoanRepaid,
	}
	if loan.Deadline != nil {
		days := ceilDays(loan.Deadline.Sub(now))
		m.DaysUntilDeadline = &days
		m.Overdue = days < 0
	}
	return m
}

// RoleOf reports which side of loan the viewer is on.
func RoleOf(loan core.Loan, viewer core.UserID) LoanRole {
	switch viewer {
	case loan.LenderID:
		return RoleLender
	case loan.BorrowerID:
		return RoleBorrower
	default:
		return RoleNone
	}
}

// NetPosition sums the remaining balance of loans the viewer lent minus
// those the viewer borrowed.
func NetPosition(loans []core.Loan, viewer core.UserID) core.Position {
	var p core.Position
	for _, l := range loans {
		switch RoleOf(l, viewer) {
		case RoleLender:
			p.Lent = p.Lent.Add(l.Remaining())
		case RoleBorrower:
			p.Borrowed = p.Borrowed.Add(l.Remaining())
		}
	}
	p.Net = p.Lent.Sub(p.Borrowed)
	return p
}

// CountLoans tallies active, repaid and overdue loans at now. Overdue loans
// are also counted as active.
func CountLoans(loans []core.Loan, now time.Time) LoanTotals {
	var t LoanTotals
	for _, l := range loans {
		m := ComputeLoanMetrics(l, now)
		if m.FullyRepaid {
			t.Repaid++
			continue
		}
		t.Active++
		if m.Overdue {
			t.Overdue++
		}
	}
	return t
}

// Percent returns part/whole × 100 rounded to two decimals, or 0 when whole
// is not positive. A part short of whole never rounds up to 100.
func Percent(part, whole core.Money) float64 {
	if whole.Cents <= 0 {
		return 0
	}
	hundred := decimal.NewFromInt(100)
	p := decimal.NewFromInt(part.Cents).
		Mul(hundred).
		Div(decimal.NewFromInt(whole.Cents)).
		Round(2)
	if part.Cents < whole.Cents && p.GreaterThanOrEqual(hundred) {
		p = decimal.RequireFromString("99.99")
	}
	return p.InexactFloat64()
}

func floorDays(d time.Duration) int {
	q := d / day
	if d%day < 0 {
		q--
	}
	return int(q)
}

func ceilDays(d time.Duration) int {
	q := d / day
	if d%day > 0 {
		q++
	}
	return int(q)
}
