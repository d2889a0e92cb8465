// Package ledger owns the three append-only journals and the manager name,
// keeps them loaded in memory, and persists every mutation through the
// key-value store before committing it. Derived views (history, summaries)
// are recomputed from the live slices on every call and never cached.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"registre/internal/core"
	"registre/internal/storage"
)

// Store is the bookkeeping core. All access goes through its mutex; reads
// hand out copies so callers can never alias the live slices.
type Store struct {
	kv  storage.KV
	now func() time.Time

	mu            sync.Mutex
	rawMaterials  []core.RawMaterialEntry
	productions   []core.ProductionEntry
	salesExpenses []core.SalesExpenseEntry
	managerName   string
}

// Open loads the persisted state from kv. Missing keys mean a fresh store:
// every ledger starts empty and the manager name blank.
func Open(ctx context.Context, kv storage.KV) (*Store, error) {
	s := &Store{kv: kv, now: time.Now}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory state with whatever the store holds now.
// The worker uses it to observe writes made by the server process.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	var (
		raw         []core.RawMaterialEntry
		productions []core.ProductionEntry
		sales       []core.SalesExpenseEntry
	)
	if err := loadLedger(ctx, s.kv, storage.KeyRawMaterials, &raw); err != nil {
		return err
	}
	if err := loadLedger(ctx, s.kv, storage.KeyProductions, &productions); err != nil {
		return err
	}
	if err := loadLedger(ctx, s.kv, storage.KeySalesExpenses, &sales); err != nil {
		return err
	}
	manager, _, err := s.kv.Get(ctx, storage.KeyManagerName)
	if err != nil {
		return fmt.Errorf("load %s: %w", storage.KeyManagerName, err)
	}

	s.rawMaterials = raw
	s.productions = productions
	s.salesExpenses = sales
	s.managerName = manager
	return nil
}

func loadLedger[T any](ctx context.Context, kv storage.KV, key string, out *[]T) error {
	value, ok, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || value == "" {
		*out = nil
		return nil
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// persist writes the serialized ledgers in one atomic save. It runs before
// the in-memory commit: a failed save leaves the store exactly as it was.
func (s *Store) persist(ctx context.Context, pairs map[string]string) error {
	if err := s.kv.SetMulti(ctx, pairs); err != nil {
		return fmt.Errorf("persist ledger state: %w", err)
	}
	return nil
}

func marshalLedger[T any](key string, entries []T) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", key, err)
	}
	return string(data), nil
}

// AppendRawMaterial validates, stamps, persists, and commits a raw material
// intake. The returned entry carries the assigned receipt id and date.
func (s *Store) AppendRawMaterial(ctx context.Context, entry core.RawMaterialEntry) (core.RawMaterialEntry, error) {
	if err := entry.Validate(); err != nil {
		return core.RawMaterialEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry.ReceiptID = core.NewReceiptID(core.KindRawMaterial, now)
	entry.Date = now

	candidate := append(copySlice(s.rawMaterials), entry)
	value, err := marshalLedger(storage.KeyRawMaterials, candidate)
	if err != nil {
		return core.RawMaterialEntry{}, err
	}
	if err := s.persist(ctx, map[string]string{storage.KeyRawMaterials: value}); err != nil {
		return core.RawMaterialEntry{}, err
	}

	s.rawMaterials = candidate
	slog.InfoContext(ctx, "Raw material recorded",
		"receipt_id", entry.ReceiptID, "material", entry.MaterialName)
	return entry, nil
}

// AppendProduction validates, stamps, persists, and commits a production run.
func (s *Store) AppendProduction(ctx context.Context, entry core.ProductionEntry) (core.ProductionEntry, error) {
	if err := entry.Validate(); err != nil {
		return core.ProductionEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry.ReceiptID = core.NewReceiptID(core.KindProduction, now)
	entry.Date = now

	candidate := append(copySlice(s.productions), entry)
	value, err := marshalLedger(storage.KeyProductions, candidate)
	if err != nil {
		return core.ProductionEntry{}, err
	}
	if err := s.persist(ctx, map[string]string{storage.KeyProductions: value}); err != nil {
		return core.ProductionEntry{}, err
	}

	s.productions = candidate
	slog.InfoContext(ctx, "Production recorded",
		"receipt_id", entry.ReceiptID, "product", entry.ProductName)
	return entry, nil
}

// AppendSalesExpense validates, stamps, persists, and commits a sale with
// its attached expenses.
func (s *Store) AppendSalesExpense(ctx context.Context, entry core.SalesExpenseEntry) (core.SalesExpenseEntry, error) {
	if err := entry.Validate(); err != nil {
		return core.SalesExpenseEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry.ReceiptID = core.NewReceiptID(core.KindSalesExpense, now)
	entry.Date = now

	candidate := append(copySlice(s.salesExpenses), entry)
	value, err := marshalLedger(storage.KeySalesExpenses, candidate)
	if err != nil {
		return core.SalesExpenseEntry{}, err
	}
	if err := s.persist(ctx, map[string]string{storage.KeySalesExpenses: value}); err != nil {
		return core.SalesExpenseEntry{}, err
	}

	s.salesExpenses = candidate
	slog.InfoContext(ctx, "Sale recorded",
		"receipt_id", entry.ReceiptID, "point_of_sale", entry.PointOfSale)
	return entry, nil
}

// DeleteAt removes the record at a positional index in the named ledger.
// Later records shift down one position; indices held by previously built
// histories are stale after this returns.
func (s *Store) DeleteAt(ctx context.Context, source core.Source, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch source {
	case core.SourceRawMaterials:
		return deleteEntry(ctx, s, storage.KeyRawMaterials, &s.rawMaterials, index)
	case core.SourceProductions:
		return deleteEntry(ctx, s, storage.KeyProductions, &s.productions, index)
	case core.SourceSalesExpenses:
		return deleteEntry(ctx, s, storage.KeySalesExpenses, &s.salesExpenses, index)
	default:
		return fmt.Errorf("unknown ledger %q: %w", source, core.ErrIndexOutOfRange)
	}
}

func deleteEntry[T any](ctx context.Context, s *Store, key string, entries *[]T, index int) error {
	if index < 0 || index >= len(*entries) {
		return fmt.Errorf("%s[%d]: %w", key, index, core.ErrIndexOutOfRange)
	}

	candidate := make([]T, 0, len(*entries)-1)
	candidate = append(candidate, (*entries)[:index]...)
	candidate = append(candidate, (*entries)[index+1:]...)

	value, err := marshalLedger(key, candidate)
	if err != nil {
		return err
	}
	if err := s.persist(ctx, map[string]string{key: value}); err != nil {
		return err
	}

	*entries = candidate
	slog.InfoContext(ctx, "Record deleted", "ledger", key, "index", index)
	return nil
}

// SetManagerName persists and commits the manager name shown on production
// reports. Blank is allowed; it clears the name.
func (s *Store) SetManagerName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, map[string]string{storage.KeyManagerName: name}); err != nil {
		return err
	}
	s.managerName = name
	return nil
}

func (s *Store) ManagerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.managerName
}

// RawMaterials returns a copy of the raw materials ledger in append order.
func (s *Store) RawMaterials() []core.RawMaterialEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySlice(s.rawMaterials)
}

// Productions returns a copy of the productions ledger in append order.
func (s *Store) Productions() []core.ProductionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySlice(s.productions)
}

// SalesExpenses returns a copy of the sales ledger in append order.
func (s *Store) SalesExpenses() []core.SalesExpenseEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySlice(s.salesExpenses)
}

// History builds the merged transaction history from the current state.
func (s *Store) History() []core.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.BuildHistory(s.rawMaterials, s.productions, s.salesExpenses)
}

// LastSale returns the most recently appended sales record. It reports
// core.ErrNoSales when the ledger is empty.
func (s *Store) LastSale() (core.SalesExpenseEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.salesExpenses) == 0 {
		return core.SalesExpenseEntry{}, core.ErrNoSales
	}
	return s.salesExpenses[len(s.salesExpenses)-1], nil
}

// Summary computes the balance report as of now.
func (s *Store) Summary() core.GlobalSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.BuildGlobalSummary(s.productions, s.salesExpenses, s.now())
}

// MonthlyComparison computes the monthly report for a "YYYY-MM" key.
func (s *Store) MonthlyComparison(monthKey string) core.MonthlyComparison {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.BuildMonthlyComparison(s.productions, s.salesExpenses, monthKey)
}

func copySlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
