// Package memory holds an in-process journal used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"registre/internal/core"
	ports "registre/internal/sheets"
)

type Journal struct {
	mu   sync.Mutex
	tabs map[core.Source][]core.HistoryRecord
}

var _ ports.Journal = (*Journal)(nil)

func New() *Journal {
	return &Journal{tabs: make(map[core.Source][]core.HistoryRecord)}
}

// Append stores the record and returns a synthetic row reference.
func (j *Journal) Append(_ context.Context, source core.Source, rec core.HistoryRecord) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.tabs[source] = append(j.tabs[source], rec)
	return fmt.Sprintf("mem:%s:%d", source, len(j.tabs[source])), nil
}

// Delete removes the first row carrying the receipt id. A missing row is not
// an error: the export may already have rewritten the tab.
func (j *Journal) Delete(_ context.Context, source core.Source, receiptID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	rows := j.tabs[source]
	for i, rec := range rows {
		if rec.ReceiptID == receiptID {
			j.tabs[source] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Replace rewrites the whole tab.
func (j *Journal) Replace(_ context.Context, source core.Source, recs []core.HistoryRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.tabs[source] = append([]core.HistoryRecord(nil), recs...)
	return nil
}

// Rows returns a copy of a tab's rows, for assertions in tests.
func (j *Journal) Rows(source core.Source) []core.HistoryRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]core.HistoryRecord(nil), j.tabs[source]...)
}
