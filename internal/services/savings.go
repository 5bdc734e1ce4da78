package services

import (
	"time"

	"ledgerdash/internal/core"
)

// OnTimeThresholdDays is the longest repayment still counted as on time.
const OnTimeThresholdDays = 30

// GoalMetrics are the derived figures of the savings goal panel.
type GoalMetrics struct {
	Progress  float64    `json:"progress"`
	Remaining core.Money `json:"remaining"`
	Reached   bool       `json:"reached"`
}

// ComputeGoalMetrics derives progress towards the savings target. Progress is
// capped at 100; a zero target counts as reached.
func ComputeGoalMetrics(goal core.SavingsGoal) GoalMetrics {
	m := GoalMetrics{
		Reached:   goal.Balance.Cents >= goal.Target.Cents,
		Remaining: goal.Target.Sub(goal.Balance),
	}
	if m.Remaining.Cents < 0 {
		m.Remaining = core.Money{}
	}
	switch {
	case m.Reached:
		m.Progress = 100
	default:
		m.Progress = Percent(goal.Balance, goal.Target)
	}
	return m
}

// DurationDays returns the whole days elapsed between start and end.
func DurationDays(start, end time.Time) int {
	return floorDays(end.Sub(start))
}

// OnTime reports whether a repayment between start and end took at most
// OnTimeThresholdDays.
func OnTime(start, end time.Time) bool {
	return DurationDays(start, end) <= OnTimeThresholdDays
}
