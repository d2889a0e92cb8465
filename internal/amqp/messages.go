package amqp

import (
	"encoding/json"
	"time"

	"registre/internal/core"
)

// Message types published on record mutations.
const (
	TypeRecordSync   = "record.sync"
	TypeRecordDelete = "record.delete"
)

// RecordMessage is the lightweight mutation event for mirroring a ledger
// record to the journal spreadsheet. It carries only the address of the
// record; the worker reloads the ledger and reads the current state.
type RecordMessage struct {
	Type      string      `json:"type"`
	Source    core.Source `json:"source"`
	ReceiptID string      `json:"receiptId"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewSyncMessage creates the event for an appended record.
func NewSyncMessage(source core.Source, receiptID string) *RecordMessage {
	return &RecordMessage{
		Type:      TypeRecordSync,
		Source:    source,
		ReceiptID: receiptID,
		Timestamp: time.Now(),
	}
}

// NewDeleteMessage creates the event for a removed record.
func NewDeleteMessage(source core.Source, receiptID string) *RecordMessage {
	return &RecordMessage{
		Type:      TypeRecordDelete,
		Source:    source,
		ReceiptID: receiptID,
		Timestamp: time.Now(),
	}
}

func (m *RecordMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordMessageFromJSON(data []byte) (*RecordMessage, error) {
	var msg RecordMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
