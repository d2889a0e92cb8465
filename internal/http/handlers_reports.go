package http

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"registre/internal/core"
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	criteria := core.Criteria{
		ReceiptSubstring:     sanitizeInput(query.Get("receipt")),
		Month:                sanitizeInput(query.Get("month")),
		PointOfSaleSubstring: sanitizeInput(query.Get("point_of_sale")),
		ProductType:          sanitizeInput(query.Get("product_type")),
	}
	if criteria.Month != "" && !monthKeyPattern.MatchString(criteria.Month) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "month must be formatted YYYY-MM"})
		return
	}

	records := s.ledger.History()
	if !criteria.IsZero() {
		records = core.FilterHistory(records, criteria)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ledger.Summary())
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = core.MonthKey(time.Now())
	}
	if !monthKeyPattern.MatchString(month) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "month must be formatted YYYY-MM"})
		return
	}
	respondJSON(w, http.StatusOK, s.ledger.MonthlyComparison(month))
}

func (s *Server) handleLatestReceipt(w http.ResponseWriter, r *http.Request) {
	sale, err := s.ledger.LastSale()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"receiptId":   sale.ReceiptID,
		"pointOfSale": sale.PointOfSale,
		"productSold": sale.ProductSold,
		"quantity":    sale.ProductQuantity,
		"unitPrice":   sale.UnitPrice,
		"total":       sale.SaleTotal(),
		"totalText":   core.FormatFCFA(sale.SaleTotal()),
		"date":        sale.Date,
	})
}

func (s *Server) handleGetManager(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"managerName": s.ledger.ManagerName()})
}

func (s *Server) handleSetManager(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	name := parser.Get("managerName")
	if err := s.ledger.SetManagerName(r.Context(), name); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"managerName": name})
}
