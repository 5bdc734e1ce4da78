package calendar

import (
	"time"

	"ledgerdash/internal/classify"
	"ledgerdash/internal/core"
)

// Day is one cell of the month grid. Sums are canonical units and exclude
// upcoming transactions, which have not posted yet.
type Day struct {
	Key          DayKey     `json:"key"`
	State        DayState   `json:"state"`
	Income       core.Money `json:"income"`
	Expenses     core.Money `json:"expenses"`
	Transactions int        `json:"transactions"`
	Upcoming     int        `json:"upcoming"`
}

// Month builds the grid for every day of year/month in loc.
func Month(year int, month time.Month, loc *time.Location, b Buckets, viewer core.UserID) []Day {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := first.AddDate(0, 1, -1).Day()

	out := make([]Day, 0, days)
	for d := 1; d <= days; d++ {
		key := KeyOf(time.Date(year, month, d, 12, 0, 0, 0, loc), loc)
		txs := b[key]
		cell := Day{Key: key, State: StateOf(txs, viewer), Transactions: len(txs)}
		for _, tx := range txs {
			if classify.IsUpcoming(tx) {
				cell.Upcoming++
				continue
			}
			switch classify.Classify(tx, viewer) {
			case classify.LabelIncome:
				cell.Income = cell.Income.Add(tx.Amount)
			case classify.LabelExpense:
				cell.Expenses = cell.Expenses.Add(tx.Amount)
			}
		}
		out = append(out, cell)
	}
	return out
}
