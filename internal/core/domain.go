package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the record type of a ledger entry.
type Kind string

const (
	KindRawMaterial  Kind = "rawMaterial"
	KindProduction   Kind = "production"
	KindSalesExpense Kind = "salesExpense"
)

type (
	// RawMaterialEntry records an intake of raw material. QuantityUsed may
	// exceed QuantityReceived; usage against older intakes is not tracked.
	RawMaterialEntry struct {
		ReceiptID        string          `json:"receiptId"`
		MaterialName     string          `json:"materialName"`
		QuantityReceived decimal.Decimal `json:"quantityReceived"`
		QuantityUsed     decimal.Decimal `json:"quantityUsed"`
		Date             time.Time       `json:"date"`
	}

	// ProductionEntry records one production run.
	ProductionEntry struct {
		ReceiptID        string          `json:"receiptId"`
		ProductName      string          `json:"productName"`
		QuantityProduced decimal.Decimal `json:"quantityProduced"`
		UnitCost         decimal.Decimal `json:"unitCost"`
		ManagerName      string          `json:"managerName"`
		Date             time.Time       `json:"date"`
	}

	// SalesExpenseEntry records a sale together with the operating expenses
	// booked alongside it. Expenses is independent of the sale amount.
	SalesExpenseEntry struct {
		ReceiptID       string          `json:"receiptId"`
		PointOfSale     string          `json:"pointOfSale"`
		ProductSold     string          `json:"productSold"`
		ProductQuantity decimal.Decimal `json:"productQuantity"`
		UnitPrice       decimal.Decimal `json:"unitPrice"`
		Expenses        decimal.Decimal `json:"expenses"`
		ExpenseProofRef string          `json:"expenseProofRef,omitempty"`
		Date            time.Time       `json:"date"`
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrNegativeQuantity = errors.New("negative quantity")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrInvalidNumber    = errors.New("invalid number")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrNoSales          = errors.New("no sales recorded")
)

func (e RawMaterialEntry) Validate() error {
	if strings.TrimSpace(e.MaterialName) == "" {
		return ErrEmptyName
	}
	if e.QuantityReceived.IsNegative() || e.QuantityUsed.IsNegative() {
		return ErrNegativeQuantity
	}
	return nil
}

func (e ProductionEntry) Validate() error {
	if strings.TrimSpace(e.ProductName) == "" {
		return ErrEmptyName
	}
	if e.QuantityProduced.IsNegative() {
		return ErrNegativeQuantity
	}
	if e.UnitCost.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (e SalesExpenseEntry) Validate() error {
	if strings.TrimSpace(e.PointOfSale) == "" || strings.TrimSpace(e.ProductSold) == "" {
		return ErrEmptyName
	}
	if e.ProductQuantity.IsNegative() {
		return ErrNegativeQuantity
	}
	if e.UnitPrice.IsNegative() || e.Expenses.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// SaleTotal returns quantity sold times unit price.
func (e SalesExpenseEntry) SaleTotal() decimal.Decimal {
	return e.ProductQuantity.Mul(e.UnitPrice)
}

// Value returns quantity produced times unit cost.
func (e ProductionEntry) Value() decimal.Decimal {
	return e.QuantityProduced.Mul(e.UnitCost)
}
