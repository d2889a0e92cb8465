package http

import (
	"fmt"
	"net/http"
	"strconv"

	"registre/internal/core"
)

func (s *Server) handleCreateRawMaterial(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	received, err := parser.GetAmount("quantityReceived")
	if err != nil {
		respondError(w, r, fmt.Errorf("quantityReceived: %w", err))
		return
	}
	used, err := parser.GetAmount("quantityUsed")
	if err != nil {
		respondError(w, r, fmt.Errorf("quantityUsed: %w", err))
		return
	}

	entry := core.RawMaterialEntry{
		MaterialName:     parser.Get("materialName"),
		QuantityReceived: received,
		QuantityUsed:     used,
	}

	saved, err := s.records.CreateRawMaterial(r.Context(), entry)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleCreateProduction(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	produced, err := parser.GetAmount("quantityProduced")
	if err != nil {
		respondError(w, r, fmt.Errorf("quantityProduced: %w", err))
		return
	}
	unitCost, err := parser.GetAmount("unitCost")
	if err != nil {
		respondError(w, r, fmt.Errorf("unitCost: %w", err))
		return
	}

	// The manager name on the record defaults to the stored one.
	managerName := parser.Get("managerName")
	if managerName == "" {
		managerName = s.ledger.ManagerName()
	}

	entry := core.ProductionEntry{
		ProductName:      parser.Get("productName"),
		QuantityProduced: produced,
		UnitCost:         unitCost,
		ManagerName:      managerName,
	}

	saved, err := s.records.CreateProduction(r.Context(), entry)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleCreateSalesExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	quantity, err := parser.GetAmount("productQuantity")
	if err != nil {
		respondError(w, r, fmt.Errorf("productQuantity: %w", err))
		return
	}
	unitPrice, err := parser.GetAmount("unitPrice")
	if err != nil {
		respondError(w, r, fmt.Errorf("unitPrice: %w", err))
		return
	}
	expenses, err := parser.GetAmount("expenses")
	if err != nil {
		respondError(w, r, fmt.Errorf("expenses: %w", err))
		return
	}

	entry := core.SalesExpenseEntry{
		PointOfSale:     parser.Get("pointOfSale"),
		ProductSold:     parser.Get("productSold"),
		ProductQuantity: quantity,
		UnitPrice:       unitPrice,
		Expenses:        expenses,
		ExpenseProofRef: parser.Get("expenseProofRef"),
	}

	saved, err := s.records.CreateSalesExpense(r.Context(), entry)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListRawMaterials(w http.ResponseWriter, r *http.Request) {
	entries := s.ledger.RawMaterials()
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func (s *Server) handleListProductions(w http.ResponseWriter, r *http.Request) {
	entries := s.ledger.Productions()
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func (s *Server) handleListSalesExpenses(w http.ResponseWriter, r *http.Request) {
	entries := s.ledger.SalesExpenses()
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

// deleteHandler builds the positional delete handler for one ledger.
func (s *Server) deleteHandler(source core.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "index must be an integer"})
			return
		}

		if err := s.records.DeleteRecord(r.Context(), source, index); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"deleted": true, "source": source, "index": index})
	}
}
