package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"registre/internal/core"
	"registre/internal/ledger"
	"registre/internal/storage"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newTestService(t *testing.T) *RecordService {
	t.Helper()
	store, err := ledger.Open(context.Background(), storage.NewMemoryStore())
	if err != nil {
		t.Fatalf("ledger.Open() error = %v", err)
	}
	// No AMQP client: publishing is skipped, mutations still succeed.
	return NewRecordService(store, nil)
}

func TestCreateRecordsWithoutBroker(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	raw, err := svc.CreateRawMaterial(ctx, core.RawMaterialEntry{
		MaterialName: "Palm oil", QuantityReceived: d("25"), QuantityUsed: d("3"),
	})
	if err != nil {
		t.Fatalf("CreateRawMaterial() error = %v", err)
	}
	if raw.ReceiptID == "" {
		t.Error("CreateRawMaterial() returned empty receipt id")
	}

	prod, err := svc.CreateProduction(ctx, core.ProductionEntry{
		ProductName: "Soap", QuantityProduced: d("5"), UnitCost: d("100"),
	})
	if err != nil {
		t.Fatalf("CreateProduction() error = %v", err)
	}
	if prod.ReceiptID == "" {
		t.Error("CreateProduction() returned empty receipt id")
	}

	sale, err := svc.CreateSalesExpense(ctx, core.SalesExpenseEntry{
		PointOfSale: "Douala", ProductSold: "Soap",
		ProductQuantity: d("2"), UnitPrice: d("500"), Expenses: d("100"),
	})
	if err != nil {
		t.Fatalf("CreateSalesExpense() error = %v", err)
	}
	if sale.ReceiptID == "" {
		t.Error("CreateSalesExpense() returned empty receipt id")
	}
}

func TestCreateRejectsInvalidEntries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateRawMaterial(ctx, core.RawMaterialEntry{
		MaterialName: "", QuantityReceived: d("1"),
	}); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("CreateRawMaterial() error = %v, want ErrEmptyName", err)
	}

	if _, err := svc.CreateProduction(ctx, core.ProductionEntry{
		ProductName: "Soap", QuantityProduced: d("-1"),
	}); !errors.Is(err, core.ErrNegativeQuantity) {
		t.Errorf("CreateProduction() error = %v, want ErrNegativeQuantity", err)
	}

	if _, err := svc.CreateSalesExpense(ctx, core.SalesExpenseEntry{
		PointOfSale: "Douala", ProductSold: "Soap",
		ProductQuantity: d("1"), UnitPrice: d("-5"),
	}); !errors.Is(err, core.ErrNegativeAmount) {
		t.Errorf("CreateSalesExpense() error = %v, want ErrNegativeAmount", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Palm oil", "Caustic soda"} {
		if _, err := svc.CreateRawMaterial(ctx, core.RawMaterialEntry{
			MaterialName: name, QuantityReceived: d("10"), QuantityUsed: d("0"),
		}); err != nil {
			t.Fatalf("CreateRawMaterial(%q) error = %v", name, err)
		}
	}

	if err := svc.DeleteRecord(ctx, core.SourceRawMaterials, 0); err != nil {
		t.Fatalf("DeleteRecord() error = %v", err)
	}

	remaining := svc.ledger.RawMaterials()
	if len(remaining) != 1 || remaining[0].MaterialName != "Caustic soda" {
		t.Fatalf("RawMaterials() after delete = %+v", remaining)
	}
}

func TestDeleteRecordOutOfRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.DeleteRecord(ctx, core.SourceProductions, 0); !errors.Is(err, core.ErrIndexOutOfRange) {
		t.Errorf("DeleteRecord() on empty ledger error = %v, want ErrIndexOutOfRange", err)
	}
	if err := svc.DeleteRecord(ctx, "unknownLedger", 0); !errors.Is(err, core.ErrIndexOutOfRange) {
		t.Errorf("DeleteRecord() on unknown ledger error = %v, want ErrIndexOutOfRange", err)
	}
}
