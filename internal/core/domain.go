package core

import (
	"errors"
	"time"
)

const (
	Monthly RepetitionTypes = "monthly"
	Yearly  RepetitionTypes = "yearly"
	Weekly  RepetitionTypes = "weekly"
	Daily   RepetitionTypes = "daily"
)

const (
	StatusCompleted TxStatus = "completed"
	StatusScheduled TxStatus = "scheduled"
	StatusPending   TxStatus = "pending"
	StatusFailed    TxStatus = "failed"
)

const (
	LoanActive LoanStatus = "active"
	LoanRepaid LoanStatus = "repaid"
)

type (
	RepetitionTypes string

	// TxStatus is the backend lifecycle state of a transaction. The set is
	// open; only scheduled has meaning for classification.
	TxStatus string

	LoanStatus string

	// UserID is an opaque reference to a ledger user.
	UserID string

	Money struct {
		Cents int64
	}

	TxMetadata struct {
		Category  string          `json:"category,omitempty"`
		Frequency RepetitionTypes `json:"frequency,omitempty"`
		Upcoming  bool            `json:"upcoming,omitempty"`
	}

	// Transaction is a ledger record as emitted by the backend. Amount is in
	// canonical units and never negative; polarity comes from classification.
	Transaction struct {
		ID          string     `json:"id"`
		UserID      UserID     `json:"user_id"`
		Type        string     `json:"type"`
		Amount      Money      `json:"amount"`
		Description string     `json:"description"`
		CreatedAt   time.Time  `json:"created_at"`
		Status      TxStatus   `json:"status"`
		SenderID    *UserID    `json:"sender_id,omitempty"`
		ReceiverID  *UserID    `json:"receiver_id,omitempty"`
		Metadata    TxMetadata `json:"metadata"`
	}

	Loan struct {
		ID          string     `json:"id"`
		Principal   Money      `json:"principal"`
		Repaid      Money      `json:"repaid"`
		Description string     `json:"description"`
		CreatedAt   time.Time  `json:"created_at"`
		Deadline    *time.Time `json:"deadline,omitempty"`
		Status      LoanStatus `json:"status"`
		BorrowerID  UserID     `json:"borrower_id"`
		LenderID    UserID     `json:"lender_id"`
	}

	// SavingsGoal is the savings pocket balance paired with the user's target.
	SavingsGoal struct {
		Balance Money `json:"balance"`
		Target  Money `json:"target"`
	}
)

var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrNegativeAmount         = errors.New("negative amount")
	ErrRepaidExceedsPrincipal = errors.New("repaid amount exceeds principal")
	ErrRepaidStatusMismatch   = errors.New("loan marked repaid with outstanding balance")
	ErrMissingParty           = errors.New("loan is missing borrower or lender")
	ErrNegativeTarget         = errors.New("savings target cannot be negative")
	ErrNegativeBalance        = errors.New("savings balance cannot be negative")
)

// Is reports whether the user is the given optional party reference.
func (u UserID) Is(ref *UserID) bool {
	return ref != nil && *ref == u
}

// Ref returns a pointer to a copy of u, for optional sender/receiver fields.
func (u UserID) Ref() *UserID {
	return &u
}

// IsScheduled reports whether the transaction has not posted yet.
func (t Transaction) IsScheduled() bool {
	return t.Status == StatusScheduled || t.Metadata.Upcoming
}

// IsRecurring reports whether the transaction carries a recurrence frequency.
func (t Transaction) IsRecurring() bool {
	return t.Metadata.Frequency != ""
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Remaining returns principal minus repaid.
func (l Loan) Remaining() Money {
	return l.Principal.Sub(l.Repaid)
}

func (l Loan) Validate() error {
	if l.Principal.Cents < 0 || l.Repaid.Cents < 0 {
		return ErrNegativeAmount
	}
	if l.Repaid.Cents > l.Principal.Cents {
		return ErrRepaidExceedsPrincipal
	}
	if l.Status == LoanRepaid && !l.Remaining().IsZero() {
		return ErrRepaidStatusMismatch
	}
	if l.BorrowerID == "" || l.LenderID == "" {
		return ErrMissingParty
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if g.Target.Cents < 0 {
		return ErrNegativeTarget
	}
	if g.Balance.Cents < 0 {
		return ErrNegativeBalance
	}
	return nil
}
