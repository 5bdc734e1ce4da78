package classify

import (
	"fmt"
	"strings"

	"ledgerdash/internal/core"
)

// Label is the per-viewer polarity of a transaction. It is always derived,
// never stored.
type Label string

const (
	LabelIncome  Label = "income"
	LabelExpense Label = "expense"
	LabelNeutral Label = "neutral"
)

// Disambiguate rewrites a legacy transfer into its directional type for the
// viewer. A transfer the viewer is not party to stays a bare transfer and
// classifies as neutral. Other types are returned unchanged.
func Disambiguate(tx core.Transaction, viewer core.UserID) string {
	if tx.Type != TypeTransfer {
		return tx.Type
	}
	switch {
	case viewer.Is(tx.ReceiverID):
		return TypeTransferReceived
	case viewer.Is(tx.SenderID):
		return TypeTransferSent
	default:
		return TypeTransfer
	}
}

// Classify labels tx for viewer.
func Classify(tx core.Transaction, viewer core.UserID) Label {
	switch KindOf(Disambiguate(tx, viewer)) {
	case KindIncome:
		return LabelIncome
	case KindExpense:
		return LabelExpense
	default:
		return LabelNeutral
	}
}

func IsIncome(tx core.Transaction, viewer core.UserID) bool {
	return Classify(tx, viewer) == LabelIncome
}

func IsExpense(tx core.Transaction, viewer core.UserID) bool {
	return Classify(tx, viewer) == LabelExpense
}

// IsUpcoming reports whether tx has not posted yet. Upcoming transactions
// keep their income/expense label.
func IsUpcoming(tx core.Transaction) bool {
	return tx.IsScheduled()
}

// IsRecognized reports whether the raw type is part of the taxonomy.
func IsRecognized(tx core.Transaction) bool {
	return KindOf(tx.Type) != KindUnrecognized
}

// SignedAmount applies the viewer's polarity to the stored amount: positive
// for income, negative for expense, zero for neutral.
func SignedAmount(tx core.Transaction, viewer core.UserID) core.Money {
	switch Classify(tx, viewer) {
	case LabelIncome:
		return tx.Amount
	case LabelExpense:
		return tx.Amount.Neg()
	default:
		return core.Money{}
	}
}

// Filter selects transactions for the transaction list.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterIncome   Filter = "income"
	FilterExpenses Filter = "expenses"
)

// ParseFilter accepts "", "all", "income", "expense" and "expenses".
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "income":
		return FilterIncome, nil
	case "expense", "expenses":
		return FilterExpenses, nil
	default:
		return "", fmt.Errorf("unknown transaction filter: %q", s)
	}
}

// Matches reports whether tx passes the filter for viewer.
func (f Filter) Matches(tx core.Transaction, viewer core.UserID) bool {
	switch f {
	case FilterIncome:
		return IsIncome(tx, viewer)
	case FilterExpenses:
		return IsExpense(tx, viewer)
	default:
		return true
	}
}
