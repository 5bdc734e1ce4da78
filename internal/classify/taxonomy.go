// Package classify labels ledger transactions as income, expense or neutral
// relative to the user viewing them.
//
// Classification runs in two steps. Disambiguate rewrites the legacy
// "transfer" type into a directional type using the viewer's identity, then
// KindOf looks the result up in a closed taxonomy. Types the taxonomy does
// not know resolve to KindUnrecognized and are treated as neutral.
package classify

// Transaction types emitted by the ledger backend.
const (
	TypeTopup                 = "topup"
	TypeIncome                = "income"
	TypeRefund                = "refund"
	TypeTransferReceived      = "transfer_received"
	TypeLoanRepaymentReceived = "loan_repayment_received"
	TypeLoanReceived          = "loan_received"
	TypeSavingsWithdrawal     = "savings_withdrawal"
	TypeSale                  = "sale"
	TypeBudgetWithdrawal      = "budget_withdrawal"

	TypePayment          = "payment"
	TypePurchase         = "purchase"
	TypeTransferSent     = "transfer_sent"
	TypeCardPayment      = "card_payment"
	TypeLoanDisbursement = "loan_disbursement"
	TypeLoanRepayment    = "loan_repayment"
	TypeSavingsDeposit   = "savings_deposit"
	TypeBudgetAllocation = "budget_allocation"
	TypeBudgetExpense    = "budget_expense"

	// TypeTransfer is the legacy undirected transfer. Its polarity depends
	// on whether the viewer sent or received it.
	TypeTransfer = "transfer"
)

// Kind is the variant a transaction type string resolves to.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindIncome
	KindExpense
	KindLegacyTransfer
)

func (k Kind) String() string {
	switch k {
	case KindIncome:
		return "income"
	case KindExpense:
		return "expense"
	case KindLegacyTransfer:
		return "legacy_transfer"
	default:
		return "unrecognized"
	}
}

// taxonomy is the closed membership table. It is versioned with the backend
// and never changed at runtime.
var taxonomy = map[string]Kind{
	TypeTopup:                 KindIncome,
	TypeIncome:                KindIncome,
	TypeRefund:                KindIncome,
	TypeTransferReceived:      KindIncome,
	TypeLoanRepaymentReceived: KindIncome,
	TypeLoanReceived:          KindIncome,
	TypeSavingsWithdrawal:     KindIncome,
	TypeSale:                  KindIncome,
	TypeBudgetWithdrawal:      KindIncome,

	TypePayment:          KindExpense,
	TypePurchase:         KindExpense,
	TypeTransferSent:     KindExpense,
	TypeCardPayment:      KindExpense,
	TypeLoanDisbursement: KindExpense,
	TypeLoanRepayment:    KindExpense,
	TypeSavingsDeposit:   KindExpense,
	TypeBudgetAllocation: KindExpense,
	TypeBudgetExpense:    KindExpense,

	TypeTransfer: KindLegacyTransfer,
}

// KindOf resolves a raw type string. Unknown strings are KindUnrecognized.
func KindOf(txType string) Kind {
	return taxonomy[txType]
}

// Types returns every type string resolving to k.
func Types(k Kind) []string {
	var out []string
	for t, kind := range taxonomy {
		if kind == k {
			out = append(out, t)
		}
	}
	return out
}
