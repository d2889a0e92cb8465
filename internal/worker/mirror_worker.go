// Package worker mirrors ledger records to the journal spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"registre/internal/amqp"
	"registre/internal/core"
	"registre/internal/ledger"
	"registre/internal/sheets"
)

// MirrorWorker consumes record mutation events and keeps the journal
// spreadsheet in step with the ledger store. The ledger is the source of
// truth; the spreadsheet is a best-effort mirror rebuilt by ExportAll.
type MirrorWorker struct {
	ledger  *ledger.Store
	journal sheets.Journal
}

func NewMirrorWorker(ledger *ledger.Store, journal sheets.Journal) *MirrorWorker {
	return &MirrorWorker{
		ledger:  ledger,
		journal: journal,
	}
}

// HandleMessage processes a single record mutation event. It reloads the
// ledger first so it sees writes made by the server process.
func (w *MirrorWorker) HandleMessage(ctx context.Context, msg *amqp.RecordMessage) error {
	if err := w.ledger.Reload(ctx); err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}

	switch msg.Type {
	case amqp.TypeRecordDelete:
		if err := w.journal.Delete(ctx, msg.Source, msg.ReceiptID); err != nil {
			return fmt.Errorf("delete journal row: %w", err)
		}
		slog.InfoContext(ctx, "Mirrored record deletion",
			"source", msg.Source, "receipt_id", msg.ReceiptID)
		return nil

	case amqp.TypeRecordSync:
		rec, ok := w.findRecord(msg.Source, msg.ReceiptID)
		if !ok {
			// The record was deleted between publish and consume. The next
			// full export reconciles the tab.
			slog.WarnContext(ctx, "Record no longer in ledger, skipping mirror",
				"source", msg.Source, "receipt_id", msg.ReceiptID)
			return nil
		}
		ref, err := w.journal.Append(ctx, msg.Source, rec)
		if err != nil {
			return fmt.Errorf("append journal row: %w", err)
		}
		slog.InfoContext(ctx, "Mirrored record",
			"source", msg.Source, "receipt_id", msg.ReceiptID, "row_ref", ref)
		return nil

	default:
		slog.WarnContext(ctx, "Unknown message type, dropping", "type", msg.Type)
		return nil
	}
}

func (w *MirrorWorker) findRecord(source core.Source, receiptID string) (core.HistoryRecord, bool) {
	for _, rec := range w.ledger.History() {
		if rec.Source == source && rec.ReceiptID == receiptID {
			return rec, true
		}
	}
	return core.HistoryRecord{}, false
}

// ExportAll rewrites all three journal tabs from the current ledger state,
// reconciling any rows lost to missed messages. The three tabs are rewritten
// in parallel.
func (w *MirrorWorker) ExportAll(ctx context.Context) error {
	if err := w.ledger.Reload(ctx); err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}

	bySource := map[core.Source][]core.HistoryRecord{
		core.SourceRawMaterials:  nil,
		core.SourceProductions:   nil,
		core.SourceSalesExpenses: nil,
	}
	for _, rec := range w.ledger.History() {
		bySource[rec.Source] = append(bySource[rec.Source], rec)
	}

	g, ctx := errgroup.WithContext(ctx)
	for source, recs := range bySource {
		g.Go(func() error {
			if err := w.journal.Replace(ctx, source, recs); err != nil {
				return fmt.Errorf("export %s: %w", source, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Exported full journal",
		"raw_materials", len(bySource[core.SourceRawMaterials]),
		"productions", len(bySource[core.SourceProductions]),
		"sales", len(bySource[core.SourceSalesExpenses]))
	return nil
}
