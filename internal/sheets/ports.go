package sheets

import (
	"context"

	"registre/internal/core"
)

// Ports for the journal spreadsheet, one tab per ledger.
type (
	JournalWriter interface {
		Append(ctx context.Context, source core.Source, rec core.HistoryRecord) (rowRef string, err error)
	}

	JournalDeleter interface {
		// Delete removes the first row carrying the given receipt id.
		Delete(ctx context.Context, source core.Source, receiptID string) error
	}

	// JournalReplacer rewrites a whole tab, used by the periodic full export.
	JournalReplacer interface {
		Replace(ctx context.Context, source core.Source, recs []core.HistoryRecord) error
	}
)

// Journal is the composite port the worker runs against.
type Journal interface {
	JournalWriter
	JournalDeleter
	JournalReplacer
}

// Row flattens a history record into the spreadsheet column layout:
// receipt id, date, kind, details, quantity, point of sale, proof ref.
func Row(rec core.HistoryRecord) []any {
	return []any{
		rec.ReceiptID,
		rec.Date.UTC().Format("2006-01-02 15:04:05"),
		string(rec.Kind),
		rec.Details,
		rec.Quantity,
		rec.PointOfSale,
		rec.ProofRef,
	}
}
