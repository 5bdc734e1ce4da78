package services

import (
	"testing"
	"time"

	"ledgerdash/internal/core"
)

func TestComputeGoalMetrics(t *testing.T) {
	tests := []struct {
		name      string
		balance   int64
		target    int64
		progress  float64
		remaining int64
		reached   bool
	}{
		{"in progress", 3500, 5000, 70, 1500, false},
		{"exactly reached", 5000, 5000, 100, 0, true},
		{"overshoot capped", 9000, 5000, 100, 0, true},
		{"zero target", 0, 0, 100, 0, true},
		{"empty pocket", 0, 5000, 0, 5000, false},
		{"fractional progress", 1, 3, 33.33, 2, false},
		{"one cent short", 999999, 1000000, 99.99, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeGoalMetrics(core.SavingsGoal{Balance: core.Cents(tt.balance), Target: core.Cents(tt.target)})
			if m.Progress != tt.progress || m.Remaining.Cents != tt.remaining || m.Reached != tt.reached {
				t.Errorf("ComputeGoalMetrics() = %+v, want progress %v remaining %d reached %v",
					m, tt.progress, tt.remaining, tt.reached)
			}
		})
	}
}

func TestOnTime(t *testing.T) {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		end  time.Time
		days int
		want bool
	}{
		{"same day", start.Add(3 * time.Hour), 0, true},
		{"exactly threshold", start.AddDate(0, 0, OnTimeThresholdDays), 30, true},
		{"one day late", start.AddDate(0, 0, OnTimeThresholdDays+1), 31, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationDays(start, tt.end); got != tt.days {
				t.Errorf("DurationDays() = %d, want %d", got, tt.days)
			}
			if got := OnTime(start, tt.end); got != tt.want {
				t.Errorf("OnTime() = %v, want %v", got, tt.want)
			}
		})
	}
}
