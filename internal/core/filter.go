package core

import "strings"

// Criteria is a conjunction of optional history filters. A zero-value field
// is a pass-through predicate; when several fields are set a record must
// satisfy all of them.
type Criteria struct {
	// ReceiptSubstring matches case-insensitively against the receipt id.
	ReceiptSubstring string
	// Month is a "YYYY-MM" key matched as an exact prefix of the ISO date.
	Month string
	// PointOfSaleSubstring matches case-insensitively against the point of
	// sale. Records without one (raw material, production) never match.
	PointOfSaleSubstring string
	// ProductType matches by exact equality against the production product
	// name or the sales product sold. Raw material records never match.
	ProductType string
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.ReceiptSubstring == "" && c.Month == "" && c.PointOfSaleSubstring == "" && c.ProductType == ""
}

// FilterHistory returns the records satisfying every set criterion, in the
// order they appear in records.
func FilterHistory(records []HistoryRecord, c Criteria) []HistoryRecord {
	receipt := strings.ToLower(strings.TrimSpace(c.ReceiptSubstring))
	pos := strings.ToLower(strings.TrimSpace(c.PointOfSaleSubstring))

	out := make([]HistoryRecord, 0, len(records))
	for _, rec := range records {
		if receipt != "" && !strings.Contains(strings.ToLower(rec.ReceiptID), receipt) {
			continue
		}
		if c.Month != "" && !MatchesDateKey(rec.Date, c.Month) {
			continue
		}
		if pos != "" && !strings.Contains(strings.ToLower(rec.PointOfSale), pos) {
			continue
		}
		if c.ProductType != "" && rec.productName != c.ProductType {
			continue
		}
		out = append(out, rec)
	}
	return out
}
