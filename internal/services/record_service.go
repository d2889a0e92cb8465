package services

import (
	"context"
	"fmt"
	"log/slog"

	"registre/internal/amqp"
	"registre/internal/core"
	"registre/internal/ledger"
)

// RecordService orchestrates record mutations across the ledger store and
// AMQP. The ledger commit is authoritative; a failed publish is logged and
// swallowed so bookkeeping never depends on the broker being up.
type RecordService struct {
	ledger     *ledger.Store
	amqpClient *amqp.Client
}

func NewRecordService(ledger *ledger.Store, amqpClient *amqp.Client) *RecordService {
	return &RecordService{
		ledger:     ledger,
		amqpClient: amqpClient,
	}
}

// CreateRawMaterial appends a raw material intake and publishes a sync event.
func (s *RecordService) CreateRawMaterial(ctx context.Context, entry core.RawMaterialEntry) (core.RawMaterialEntry, error) {
	saved, err := s.ledger.AppendRawMaterial(ctx, entry)
	if err != nil {
		return core.RawMaterialEntry{}, err
	}
	s.publish(ctx, amqp.NewSyncMessage(core.SourceRawMaterials, saved.ReceiptID))
	return saved, nil
}

// CreateProduction appends a production run and publishes a sync event.
func (s *RecordService) CreateProduction(ctx context.Context, entry core.ProductionEntry) (core.ProductionEntry, error) {
	saved, err := s.ledger.AppendProduction(ctx, entry)
	if err != nil {
		return core.ProductionEntry{}, err
	}
	s.publish(ctx, amqp.NewSyncMessage(core.SourceProductions, saved.ReceiptID))
	return saved, nil
}

// CreateSalesExpense appends a sale and publishes a sync event.
func (s *RecordService) CreateSalesExpense(ctx context.Context, entry core.SalesExpenseEntry) (core.SalesExpenseEntry, error) {
	saved, err := s.ledger.AppendSalesExpense(ctx, entry)
	if err != nil {
		return core.SalesExpenseEntry{}, err
	}
	s.publish(ctx, amqp.NewSyncMessage(core.SourceSalesExpenses, saved.ReceiptID))
	return saved, nil
}

// DeleteRecord removes the record at a positional index in the named ledger
// and publishes a delete event carrying its receipt id. The id is resolved
// before deletion because the position no longer exists afterward.
func (s *RecordService) DeleteRecord(ctx context.Context, source core.Source, index int) error {
	receiptID, err := s.receiptAt(source, index)
	if err != nil {
		return err
	}

	if err := s.ledger.DeleteAt(ctx, source, index); err != nil {
		return err
	}

	s.publish(ctx, amqp.NewDeleteMessage(source, receiptID))
	return nil
}

func (s *RecordService) receiptAt(source core.Source, index int) (string, error) {
	switch source {
	case core.SourceRawMaterials:
		entries := s.ledger.RawMaterials()
		if index < 0 || index >= len(entries) {
			return "", fmt.Errorf("%s[%d]: %w", source, index, core.ErrIndexOutOfRange)
		}
		return entries[index].ReceiptID, nil
	case core.SourceProductions:
		entries := s.ledger.Productions()
		if index < 0 || index >= len(entries) {
			return "", fmt.Errorf("%s[%d]: %w", source, index, core.ErrIndexOutOfRange)
		}
		return entries[index].ReceiptID, nil
	case core.SourceSalesExpenses:
		entries := s.ledger.SalesExpenses()
		if index < 0 || index >= len(entries) {
			return "", fmt.Errorf("%s[%d]: %w", source, index, core.ErrIndexOutOfRange)
		}
		return entries[index].ReceiptID, nil
	default:
		return "", fmt.Errorf("unknown ledger %q: %w", source, core.ErrIndexOutOfRange)
	}
}

func (s *RecordService) publish(ctx context.Context, msg *amqp.RecordMessage) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping record message", "type", msg.Type)
		return
	}
	if err := s.amqpClient.PublishRecordMessage(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record message",
			"type", msg.Type, "receipt_id", msg.ReceiptID, "error", err)
		// Don't fail the request, the ledger commit already succeeded.
	}
}

// Close closes the AMQP connection. The ledger's store is owned by main.
func (s *RecordService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp: %w", err)
		}
	}
	return nil
}
