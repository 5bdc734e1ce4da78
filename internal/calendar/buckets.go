// Package calendar groups transactions into calendar days and derives the
// colour state of each day for the timeline calendar.
package calendar

import (
	"sort"
	"time"

	"ledgerdash/internal/classify"
	"ledgerdash/internal/core"
)

const dayLayout = "2006-01-02"

// DayKey identifies a calendar day in the viewer's location, YYYY-MM-DD.
type DayKey string

// KeyOf returns the day key of t in loc.
func KeyOf(t time.Time, loc *time.Location) DayKey {
	if loc == nil {
		loc = time.Local
	}
	return DayKey(t.In(loc).Format(dayLayout))
}

// Time returns midnight of the day in loc.
func (k DayKey) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(dayLayout, string(k), loc)
}

// DayState is the aggregate visual state of one calendar day.
type DayState string

const (
	StateUpcoming DayState = "upcoming"
	StateMixed    DayState = "mixed"
	StateExpense  DayState = "expense"
	StateIncome   DayState = "income"
	StateEmpty    DayState = "empty"
)

// Buckets maps a day to its transactions in input order.
type Buckets map[DayKey][]core.Transaction

// BucketByDay groups transactions by the local calendar day of CreatedAt.
// Order within a bucket follows input order.
func BucketByDay(txs []core.Transaction, loc *time.Location) Buckets {
	out := make(Buckets)
	for _, tx := range txs {
		k := KeyOf(tx.CreatedAt, loc)
		out[k] = append(out[k], tx)
	}
	return out
}

// Keys returns the bucket days in ascending order.
func (b Buckets) Keys() []DayKey {
	keys := make([]DayKey, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// StateOf derives a day's state. The priority is fixed: any upcoming
// transaction wins, then income with expense is mixed, then expense only,
// then income only. Neutral transactions alone leave the day empty.
func StateOf(day []core.Transaction, viewer core.UserID) DayState {
	var income, expense bool
	for _, tx := range day {
		if classify.IsUpcoming(tx) {
			return StateUpcoming
		}
		switch classify.Classify(tx, viewer) {
		case classify.LabelIncome:
			income = true
		case classify.LabelExpense:
			expense = true
		}
	}
	switch {
	case income && expense:
		return StateMixed
	case expense:
		return StateExpense
	case income:
		return StateIncome
	default:
		return StateEmpty
	}
}

// States derives the state of every bucketed day.
func States(b Buckets, viewer core.UserID) map[DayKey]DayState {
	out := make(map[DayKey]DayState, len(b))
	for k, txs := range b {
		out[k] = StateOf(txs, viewer)
	}
	return out
}
