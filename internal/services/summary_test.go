package services

import (
	"testing"

	"ledgerdash/internal/classify"
	"ledgerdash/internal/core"
)

func record(id, typ string, cents int64, category string) core.Transaction {
	return core.Transaction{
		ID:        id,
		Type:      typ,
		Amount:    core.Cents(cents),
		CreatedAt: now,
		Status:    core.StatusCompleted,
		Metadata:  core.TxMetadata{Category: category},
	}
}

func sampleRecords() []core.Transaction {
	transfer := record("t4", classify.TypeTransfer, 5000, "family")
	transfer.SenderID = core.UserID("bob").Ref()
	transfer.ReceiverID = core.UserID("alice").Ref()

	return []core.Transaction{
		record("t1", classify.TypeTopup, 10000, "salary"),
		record("t2", classify.TypePayment, 2500, "groceries"),
		record("t3", "cashback", 100, ""),
		transfer,
		record("t5", classify.TypeCardPayment, 1500, "groceries"),
	}
}

func TestSummarize(t *testing.T) {
	txs := sampleRecords()

	tests := []struct {
		filter   classify.Filter
		count    int
		total    int64
		income   int64
		expenses int64
		net      int64
		cats     []string
	}{
		{classify.FilterAll, 5, 19100, 15000, 4000, 11000, []string{"salary", "groceries", Uncategorized, "family"}},
		{classify.FilterIncome, 2, 15000, 15000, 0, 15000, []string{"salary", "family"}},
		{classify.FilterExpenses, 2, 4000, 0, 4000, -4000, []string{"groceries"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			s := Summarize(txs, "alice", tt.filter)
			if s.Count != tt.count || s.Total.Cents != tt.total {
				t.Errorf("count/total = %d/%d, want %d/%d", s.Count, s.Total.Cents, tt.count, tt.total)
			}
			if s.Income.Cents != tt.income || s.Expenses.Cents != tt.expenses || s.Net.Cents != tt.net {
				t.Errorf("income/expenses/net = %d/%d/%d", s.Income.Cents, s.Expenses.Cents, s.Net.Cents)
			}
			if len(s.ByCategory) != len(tt.cats) {
				t.Fatalf("categories = %+v, want %v", s.ByCategory, tt.cats)
			}
			for i, name := range tt.cats {
				if s.ByCategory[i].Name != name {
					t.Errorf("category %d = %q, want %q", i, s.ByCategory[i].Name, name)
				}
			}
		})
	}

	groceries := Summarize(txs, "alice", classify.FilterExpenses).ByCategory[0]
	if groceries.Amount.Cents != 4000 || groceries.Count != 2 {
		t.Errorf("groceries = %+v", groceries)
	}
}

func TestSummarizeViewerDependence(t *testing.T) {
	txs := sampleRecords()[3:4]

	for viewer, want := range map[core.UserID]classify.Label{
		"alice": classify.LabelIncome,
		"bob":   classify.LabelExpense,
		"carol": classify.LabelNeutral,
	} {
		s := Summarize(txs, viewer, classify.FilterAll)
		if s.Counts[want] != 1 {
			t.Errorf("viewer %s counts = %v, want one %s", viewer, s.Counts, want)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, "alice", classify.FilterAll)
	if s.Count != 0 || !s.Total.IsZero() || len(s.ByCategory) != 0 {
		t.Errorf("Summarize(nil) = %+v", s)
	}
	if len(s.Counts) != 3 {
		t.Errorf("Counts should list every label, got %v", s.Counts)
	}
}

func TestUnrecognized(t *testing.T) {
	got := Unrecognized(sampleRecords())
	if len(got) != 1 || got[0].ID != "t3" {
		t.Errorf("Unrecognized() = %+v", got)
	}
}

func TestUnrecognizedTypes(t *testing.T) {
	txs := []core.Transaction{
		{ID: "a", Type: "crypto_buy"},
		{ID: "b", Type: classify.TypeTopup},
		{ID: "c", Type: "cashback"},
		{ID: "d", Type: "crypto_buy"},
	}
	got := UnrecognizedTypes(txs)
	if len(got) != 2 || got[0] != "cashback" || got[1] != "crypto_buy" {
		t.Errorf("UnrecognizedTypes() = %v, want [cashback crypto_buy]", got)
	}
	if UnrecognizedTypes(nil) != nil {
		t.Error("no transactions should report nothing")
	}
}
