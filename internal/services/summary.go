package services

import (
	"sort"

	"ledgerdash/internal/classify"
	"ledgerdash/internal/core"
)

// Uncategorized names the bucket for transactions without a category.
const Uncategorized = "uncategorized"

// Summary aggregates a filtered transaction list in canonical units.
type Summary struct {
	Filter     classify.Filter        `json:"filter"`
	Count      int                    `json:"count"`
	Total      core.Money             `json:"total"`
	Income     core.Money             `json:"income"`
	Expenses   core.Money             `json:"expenses"`
	Net        core.Money             `json:"net"`
	Counts     map[classify.Label]int `json:"counts"`
	ByCategory []core.CategoryAmount  `json:"by_category"`
}

// Summarize totals the transactions matching filter for viewer. Total sums
// every matching amount, so under FilterAll it includes neutral records;
// Income and Expenses only ever include classified records. Categories keep
// first-seen order.
func Summarize(txs []core.Transaction, viewer core.UserID, filter classify.Filter) Summary {
	s := Summary{
		Filter: filter,
		Counts: map[classify.Label]int{
			classify.LabelIncome:  0,
			classify.LabelExpense: 0,
			classify.LabelNeutral: 0,
		},
	}
	index := make(map[string]int)

	for _, tx := range txs {
		if !filter.Matches(tx, viewer) {
			continue
		}
		label := classify.Classify(tx, viewer)
		s.Count++
		s.Counts[label]++
		s.Total = s.Total.Add(tx.Amount)
		switch label {
		case classify.LabelIncome:
			s.Income = s.Income.Add(tx.Amount)
		case classify.LabelExpense:
			s.Expenses = s.Expenses.Add(tx.Amount)
		}

		name := tx.Metadata.Category
		if name == "" {
			name = Uncategorized
		}
		i, ok := index[name]
		if !ok {
			i = len(s.ByCategory)
			index[name] = i
			s.ByCategory = append(s.ByCategory, core.CategoryAmount{Name: name})
		}
		s.ByCategory[i].Amount = s.ByCategory[i].Amount.Add(tx.Amount)
		s.ByCategory[i].Count++
	}
	s.Net = s.Income.Sub(s.Expenses)
	return s
}

// Unrecognized returns the transactions whose type is outside the taxonomy,
// in input order, for callers to report as a data-quality signal.
func Unrecognized(txs []core.Transaction) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if !classify.IsRecognized(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// UnrecognizedTypes lists the distinct unrecognized type names, sorted.
func UnrecognizedTypes(txs []core.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tx := range Unrecognized(txs) {
		if !seen[tx.Type] {
			seen[tx.Type] = true
			out = append(out, tx.Type)
		}
	}
	sort.Strings(out)
	return out
}
