package core

import (
	"reflect"
	"testing"
)

func TestFilterHistoryNoCriteria(t *testing.T) {
	raw, productions, sales := fixtureLedgers()
	history := BuildHistory(raw, productions, sales)

	got := FilterHistory(history, Criteria{})
	if !reflect.DeepEqual(got, history) {
		t.Fatalf("empty criteria must return the unfiltered history")
	}
	if !(Criteria{}).IsZero() {
		t.Fatalf("zero criteria should report IsZero")
	}
}

func TestFilterHistoryReceiptSubstring(t *testing.T) {
	raw, productions, sales := fixtureLedgers()
	history := BuildHistory(raw, productions, sales)

	got := FilterHistory(history, Criteria{ReceiptSubstring: "prod-"})
	if len(got) != 1 || got[0].ReceiptID != "PROD-240305-CCCC" {
		t.Fatalf("case-insensitive receipt filter returned %+v", got)
	}
}

func TestFilterHistoryMonth(t *testing.T) {
	raw, productions, sales := fixtureLedgers()
	sales = append(sales, SalesExpenseEntry{
		ReceiptID: "VE-240401-FFFF", PointOfSale: "Douala", ProductSold: "Soap",
		ProductQuantity: d("1"), UnitPrice: d("500"), Date: at("2024-04-01T08:00:00Z"),
	})
	history := BuildHistory(raw, productions, sales)

	got := FilterHistory(history, Criteria{Month: "2024-03"})
	if len(got) != 5 {
		t.Fatalf("month filter returned %d records, want 5", len(got))
	}
	for _, rec := range got {
		if MonthKey(rec.Date) != "2024-03" {
			t.Fatalf("record %s outside month window", rec.ReceiptID)
		}
	}
}

func TestFilterHistoryPointOfSale(t *testing.T) {
	raw, productions, sales := fixtureLedgers()
	history := BuildHistory(raw, productions, sales)

	got := FilterHistory(history, Criteria{PointOfSaleSubstring: "doua"})
	if len(got) != 1 || got[0].ReceiptID != "VE-240305-DDDD" {
		t.Fatalf("point-of-sale filter returned %+v", got)
	}

	// Records without a point of sale never match a non-empty criterion.
	for _, rec := range got {
		if rec.Kind != KindSalesExpense {
			t.Fatalf("non-sales record %s matched point-of-sale filter", rec.ReceiptID)
		}
	}
}

func TestFilterHistoryProductType(t *testing.T) {
	// One sales record and one production record both carry "Soap" in their
	// product field; both match. A raw material named "Soap" would not,
	// since raw records expose no product name.
	raw := []RawMaterialEntry{
		{ReceiptID: "MP-1", MaterialName: "Soap", QuantityReceived: d("1"), QuantityUsed: d("0"), Date: at("2024-03-05T08:00:00Z")},
	}
	productions := []ProductionEntry{
		{ReceiptID: "PROD-1", ProductName: "Soap", QuantityProduced: d("5"), UnitCost: d("100"), Date: at("2024-03-05T08:00:00Z")},
	}
	sales := []SalesExpenseEntry{
		{ReceiptID: "VE-1", PointOfSale: "Douala", ProductSold: "Soap", ProductQuantity: d("3"), UnitPrice: d("500"), Date: at("2024-03-05T08:00:00Z")},
		{ReceiptID: "VE-2", PointOfSale: "Douala", ProductSold: "Candle", ProductQuantity: d("1"), UnitPrice: d("250"), Date: at("2024-03-05T08:00:00Z")},
	}
	history := BuildHistory(raw, productions, sales)

	got := FilterHistory(history, Criteria{ProductType: "Soap"})
	if len(got) != 2 {
		t.Fatalf("product-type filter returned %d records, want 2", len(got))
	}
	for _, rec := range got {
		if rec.Kind == KindRawMaterial {
			t.Fatalf("raw material record matched product-type filter")
		}
	}
}

func TestFilterHistoryConjunction(t *testing.T) {
	raw, productions, sales := fixtureLedgers()
	history := BuildHistory(raw, productions, sales)

	c := Criteria{Month: "2024-03", PointOfSaleSubstring: "Douala", ProductType: "Soap"}
	got := FilterHistory(history, c)
	if len(got) != 1 || got[0].ReceiptID != "VE-240305-DDDD" {
		t.Fatalf("conjunction returned %+v", got)
	}

	// Nothing satisfying all criteria may be omitted: widen one criterion
	// and the previously matching record must still be present.
	c.ProductType = ""
	got = FilterHistory(history, c)
	found := false
	for _, rec := range got {
		if rec.ReceiptID == "VE-240305-DDDD" {
			found = true
		}
	}
	if !found {
		t.Fatalf("widened criteria dropped a matching record")
	}
}
