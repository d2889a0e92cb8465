package core

import (
	"fmt"
	"sort"
	"time"
)

// Source names the ledger a history record was projected from. The values
// double as persistence keys for the durable store.
type Source string

const (
	SourceRawMaterials  Source = "rawMaterials"
	SourceProductions   Source = "productions"
	SourceSalesExpenses Source = "salesExpenses"
)

// KindOf returns the record kind stored in the ledger named by s.
func (s Source) KindOf() Kind {
	switch s {
	case SourceRawMaterials:
		return KindRawMaterial
	case SourceProductions:
		return KindProduction
	default:
		return KindSalesExpense
	}
}

// HistoryRecord is the normalized projection of any ledger record into the
// unified transaction history. Source and OriginalIndex point back at the
// live record; they are only valid against the ledger state the history was
// built from, since positional indices shift on deletion.
type HistoryRecord struct {
	ReceiptID     string    `json:"receiptId"`
	Kind          Kind      `json:"kind"`
	Details       string    `json:"details"`
	Quantity      string    `json:"quantity"`
	PointOfSale   string    `json:"pointOfSale,omitempty"`
	ProofRef      string    `json:"proofRef,omitempty"`
	Date          time.Time `json:"date"`
	Source        Source    `json:"source"`
	OriginalIndex int       `json:"originalIndex"`

	// productName backs the product-type filter; raw material records have
	// none and therefore never match that criterion.
	productName string
}

// BuildHistory merges the three ledgers into one sequence sorted by date,
// newest first. Records with equal dates keep their relative order of first
// encounter: raw materials, then productions, then sales. The result is
// computed fresh from the inputs on every call and is deterministic for
// identical ledger contents.
func BuildHistory(rawMaterials []RawMaterialEntry, productions []ProductionEntry, sales []SalesExpenseEntry) []HistoryRecord {
	records := make([]HistoryRecord, 0, len(rawMaterials)+len(productions)+len(sales))

	for i, e := range rawMaterials {
		records = append(records, HistoryRecord{
			ReceiptID:     e.ReceiptID,
			Kind:          KindRawMaterial,
			Details:       e.MaterialName,
			Quantity:      fmt.Sprintf("%s kg received, %s kg used", e.QuantityReceived, e.QuantityUsed),
			Date:          e.Date,
			Source:        SourceRawMaterials,
			OriginalIndex: i,
		})
	}
	for i, e := range productions {
		records = append(records, HistoryRecord{
			ReceiptID:     e.ReceiptID,
			Kind:          KindProduction,
			Details:       e.ProductName,
			Quantity:      fmt.Sprintf("%s kg", e.QuantityProduced),
			Date:          e.Date,
			Source:        SourceProductions,
			OriginalIndex: i,
			productName:   e.ProductName,
		})
	}
	for i, e := range sales {
		records = append(records, HistoryRecord{
			ReceiptID:     e.ReceiptID,
			Kind:          KindSalesExpense,
			Details:       fmt.Sprintf("%s (sale), expenses %s", e.ProductSold, FormatFCFA(e.Expenses)),
			Quantity:      fmt.Sprintf("%s units", e.ProductQuantity),
			PointOfSale:   e.PointOfSale,
			ProofRef:      e.ExpenseProofRef,
			Date:          e.Date,
			Source:        SourceSalesExpenses,
			OriginalIndex: i,
			productName:   e.ProductSold,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records
}
