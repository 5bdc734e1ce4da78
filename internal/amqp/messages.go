package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"ledgerdash/internal/core"
	"ledgerdash/internal/services"
)

// RecordBatchMessage carries one viewer's records for snapshot derivation.
// Now and Timezone are optional; the worker falls back to its clock and
// configured zone.
type RecordBatchMessage struct {
	ID           string             `json:"id"`
	Viewer       core.UserID        `json:"viewer"`
	Transactions []core.Transaction `json:"transactions"`
	Loans        []core.Loan        `json:"loans,omitempty"`
	Goal         *core.SavingsGoal  `json:"goal,omitempty"`
	Currency     string             `json:"currency,omitempty"`
	Timezone     string             `json:"timezone,omitempty"`
	Now          *time.Time         `json:"now,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

// NewRecordBatchMessage creates a batch message with a fresh id.
func NewRecordBatchMessage(viewer core.UserID, txs []core.Transaction) *RecordBatchMessage {
	return &RecordBatchMessage{
		ID:           uuid.NewString(),
		Viewer:       viewer,
		Transactions: txs,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordBatchMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordBatchMessageFromJSON decodes a batch and rejects one without viewer.
func RecordBatchMessageFromJSON(data []byte) (*RecordBatchMessage, error) {
	var msg RecordBatchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Viewer == "" {
		return nil, errors.New("record batch without viewer")
	}
	return &msg, nil
}

// SnapshotMessage is the derived dashboard for a processed batch.
type SnapshotMessage struct {
	ID        string             `json:"id"`
	BatchID   string             `json:"batch_id"`
	Viewer    core.UserID        `json:"viewer"`
	Snapshot  *services.Snapshot `json:"snapshot"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewSnapshotMessage wraps snap as the reply to batchID.
func NewSnapshotMessage(batchID string, snap *services.Snapshot) *SnapshotMessage {
	return &SnapshotMessage{
		ID:        uuid.NewString(),
		BatchID:   batchID,
		Viewer:    snap.Viewer,
		Snapshot:  snap,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
