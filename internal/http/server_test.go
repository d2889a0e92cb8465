package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"registre/internal/ledger"
	"registre/internal/services"
	"registre/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := ledger.Open(context.Background(), storage.NewMemoryStore())
	if err != nil {
		t.Fatalf("ledger.Open() error = %v", err)
	}
	srv := NewServer(":0", services.NewRecordService(store, nil), store)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestCreateRawMaterial(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/raw-materials",
		`{"materialName":"Palm oil","quantityReceived":"25.5","quantityUsed":"3"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	receipt, _ := body["receiptId"].(string)
	if !strings.HasPrefix(receipt, "MP-") {
		t.Errorf("receiptId = %q, want MP- prefix", receipt)
	}
}

func TestCreateRawMaterialFormEncoded(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/raw-materials",
		strings.NewReader("materialName=Caustic+soda&quantityReceived=10&quantityUsed=0"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
}

func TestCreateRejectsBadNumbers(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"non-numeric quantity", `{"materialName":"Palm oil","quantityReceived":"abc","quantityUsed":"0"}`},
		{"missing quantity", `{"materialName":"Palm oil","quantityUsed":"0"}`},
		{"negative quantity", `{"materialName":"Palm oil","quantityReceived":"-5","quantityUsed":"0"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/raw-materials", tt.body)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422, body = %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/productions",
		`{"productName":"  ","quantityProduced":"5","unitCost":"100"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", rr.Code, rr.Body.String())
	}
}

func TestProductionDefaultsManagerName(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPut, "/api/manager", `{"managerName":"Amina"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT /api/manager status = %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/productions",
		`{"productName":"Soap","quantityProduced":"5","unitCost":"100"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["managerName"] != "Amina" {
		t.Errorf("managerName = %v, want Amina", body["managerName"])
	}
}

func TestDeleteRecord(t *testing.T) {
	srv := newTestServer(t)

	for _, name := range []string{"Palm oil", "Caustic soda"} {
		rr := doJSON(t, srv, http.MethodPost, "/api/raw-materials",
			`{"materialName":"`+name+`","quantityReceived":"10","quantityUsed":"0"}`)
		if rr.Code != http.StatusCreated {
			t.Fatalf("create %q status = %d", name, rr.Code)
		}
	}

	rr := doJSON(t, srv, http.MethodDelete, "/api/raw-materials/0", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/history", "")
	body := decodeBody(t, rr)
	if body["count"].(float64) != 1 {
		t.Errorf("history count = %v, want 1 after delete", body["count"])
	}
}

func TestListLedgers(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/raw-materials", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	if body := decodeBody(t, rr); body["count"].(float64) != 0 {
		t.Errorf("count = %v, want 0 on fresh store", body["count"])
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/productions",
		`{"productName":"Soap","quantityProduced":"5","unitCost":"100"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/productions", "")
	body := decodeBody(t, rr)
	if body["count"].(float64) != 1 {
		t.Errorf("productions count = %v, want 1", body["count"])
	}
}

func TestDeleteRecordOutOfRange(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodDelete, "/api/productions/5", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodDelete, "/api/productions/abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for non-integer index", rr.Code)
	}
}

func TestHistoryFiltering(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/sales-expenses",
		`{"pointOfSale":"Douala","productSold":"Soap","productQuantity":"2","unitPrice":"500","expenses":"100"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create sale status = %d, body = %s", rr.Code, rr.Body.String())
	}
	rr = doJSON(t, srv, http.MethodPost, "/api/productions",
		`{"productName":"Candle","quantityProduced":"3","unitCost":"50"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create production status = %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/history?point_of_sale=doua", "")
	body := decodeBody(t, rr)
	if body["count"].(float64) != 1 {
		t.Errorf("filtered count = %v, want 1", body["count"])
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/history?product_type=Candle", "")
	body = decodeBody(t, rr)
	if body["count"].(float64) != 1 {
		t.Errorf("product_type filter count = %v, want 1", body["count"])
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/history?month=bad-month", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad month filter status = %d, want 400", rr.Code)
	}
}

func TestSummaryAndMonthlyReport(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["dailyProduction"] != "0" {
		t.Errorf("dailyProduction = %v, want 0 on empty ledgers", body["dailyProduction"])
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/reports/monthly?month=2024-03", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("monthly report status = %d", rr.Code)
	}
	body = decodeBody(t, rr)
	if body["month"] != "2024-03" {
		t.Errorf("month = %v, want 2024-03", body["month"])
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/reports/monthly?month=202403", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid month status = %d, want 400", rr.Code)
	}
}

func TestLatestReceipt(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/receipts/latest", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("latest receipt on empty ledger status = %d, want 404", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/sales-expenses",
		`{"pointOfSale":"Douala","productSold":"Soap","productQuantity":"3","unitPrice":"500","expenses":"0"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create sale status = %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/receipts/latest", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("latest receipt status = %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["totalText"] != "1 500 FCFA" {
		t.Errorf("totalText = %v, want \"1 500 FCFA\"", body["totalText"])
	}
	receipt, _ := body["receiptId"].(string)
	if !strings.HasPrefix(receipt, "VE-") {
		t.Errorf("receiptId = %q, want VE- prefix", receipt)
	}
}

func TestManagerRoundtrip(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/manager", "")
	body := decodeBody(t, rr)
	if body["managerName"] != "" {
		t.Errorf("initial managerName = %v, want empty", body["managerName"])
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/manager", `{"managerName":"Amina"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/manager", "")
	body = decodeBody(t, rr)
	if body["managerName"] != "Amina" {
		t.Errorf("managerName = %v, want Amina", body["managerName"])
	}
}
