package amqp

import (
	"testing"
	"time"

	"registre/internal/core"
)

func TestNewSyncMessage(t *testing.T) {
	msg := NewSyncMessage(core.SourceProductions, "PROD-240305-X1Y2")

	if msg.Type != TypeRecordSync {
		t.Errorf("Type = %q, want %q", msg.Type, TypeRecordSync)
	}
	if msg.Source != core.SourceProductions {
		t.Errorf("Source = %q, want productions", msg.Source)
	}
	if msg.ReceiptID != "PROD-240305-X1Y2" {
		t.Errorf("ReceiptID = %q", msg.ReceiptID)
	}
	if msg.Timestamp.IsZero() || time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestNewDeleteMessage(t *testing.T) {
	msg := NewDeleteMessage(core.SourceSalesExpenses, "VE-240305-AB12")

	if msg.Type != TypeRecordDelete {
		t.Errorf("Type = %q, want %q", msg.Type, TypeRecordDelete)
	}
	if msg.Source != core.SourceSalesExpenses {
		t.Errorf("Source = %q, want salesExpenses", msg.Source)
	}
}

func TestRecordMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	msg := &RecordMessage{
		Type:      TypeRecordSync,
		Source:    core.SourceRawMaterials,
		ReceiptID: "MP-240305-Z9Q4",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := RecordMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("RecordMessageFromJSON() error = %v", err)
	}

	if parsed.Type != msg.Type || parsed.Source != msg.Source || parsed.ReceiptID != msg.ReceiptID {
		t.Errorf("roundtrip changed fields: %+v", parsed)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestRecordMessage_InvalidJSON(t *testing.T) {
	if _, err := RecordMessageFromJSON([]byte(`{"type": 42}`)); err == nil {
		t.Error("RecordMessageFromJSON() should fail with invalid JSON")
	}
}
