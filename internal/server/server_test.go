package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/internal/lifecycle"
	"cashflow/internal/store"
)

func setupServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	clock := func() time.Time { return time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC) }
	engine := lifecycle.NewEngine(mem,
		lifecycle.WithJournal(lifecycle.NewTableJournal(mem, store.TransitionLog)),
		lifecycle.WithClock(clock),
	)
	return New(engine, Options{RateLimit: 1000, Burst: 1000}), mem
}

func doJSON(s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPostInvoicesMarkAsPaid(t *testing.T) {
	s, mem := setupServer(t)
	mem.Seed(store.Invoices, []interface{}{"AcmeNet", "$500.00", "2024-02-01"})

	w := doJSON(s, http.MethodPost, "/invoices", map[string]interface{}{
		"action":     "markAsPaid",
		"invoice":    map[string]interface{}{"network": "AcmeNet", "amount": 500, "dueDate": "2024-02-01"},
		"datePaid":   "2024-02-05",
		"amountPaid": 500,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"success": true}, decode(t, w))
	assert.Empty(t, mem.Rows(store.Invoices))
	assert.Equal(t, [][]interface{}{{"AcmeNet", "500", "2024-02-01", "2024-02-05", "500"}}, mem.Rows(store.PaidInvoices))
}

func TestPostInvoicesErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantKind   string
	}{
		{
			name: "missing payment details",
			body: map[string]interface{}{
				"action":  "markAsPaid",
				"invoice": map[string]interface{}{"network": "AcmeNet", "amount": "$500.00", "dueDate": "2024-02-01"},
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   "MissingPaymentDetails",
		},
		{
			name: "not found",
			body: map[string]interface{}{
				"action":  "undoPaid",
				"invoice": map[string]interface{}{"network": "AcmeNet", "amount": 500, "dueDate": "2024-02-01"},
			},
			wantStatus: http.StatusNotFound,
			wantKind:   "NotFound",
		},
		{
			name: "invalid action",
			body: map[string]interface{}{
				"action":  "archive",
				"invoice": map[string]interface{}{"network": "AcmeNet", "amount": 500, "dueDate": "2024-02-01"},
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   "InvalidAction",
		},
		{
			name: "unparseable amount paid",
			body: map[string]interface{}{
				"action":     "markAsPaid",
				"invoice":    map[string]interface{}{"network": "AcmeNet", "amount": 500, "dueDate": "2024-02-01"},
				"datePaid":   "2024-02-05",
				"amountPaid": "abc",
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   KindInvalidRequest,
		},
		{
			name: "unparseable nested amount paid",
			body: map[string]interface{}{
				"action":  "markAsPaid",
				"invoice": map[string]interface{}{"network": "AcmeNet", "amount": 500, "dueDate": "2024-02-01", "datePaid": "2024-02-05", "amountPaid": "five hundred"},
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   KindInvalidRequest,
		},
		{
			name:       "malformed body",
			body:       `{"action":`,
			wantStatus: http.StatusBadRequest,
			wantKind:   KindInvalidRequest,
		},
		{
			name:       "missing invoice",
			body:       map[string]interface{}{"action": "markAsPaid"},
			wantStatus: http.StatusBadRequest,
			wantKind:   KindInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mem := setupServer(t)
			mem.Seed(store.Invoices, []interface{}{"AcmeNet", "500", "2024-02-01"})

			w := doJSON(s, http.MethodPost, "/invoices", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.wantKind, body["kind"])
			assert.NotEmpty(t, body["error"])
			assert.Empty(t, mem.Calls())
		})
	}
}

func TestPostInvoicesStoreFailure(t *testing.T) {
	s, mem := setupServer(t)
	mem.FailOn("get", store.Invoices, errors.New("connection reset"))

	w := doJSON(s, http.MethodPost, "/api/invoices", map[string]interface{}{
		"action":  "markAsPaid",
		"invoice": map[string]interface{}{"network": "AcmeNet", "amount": 500, "dueDate": "2024-02-01", "datePaid": "2024-02-05", "amountPaid": "500"},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "StoreUnavailable", body["kind"])
	assert.Contains(t, body["details"], "connection reset")
}

func TestNetworksPushAndSnapshot(t *testing.T) {
	s, mem := setupServer(t)
	mem.Seed(store.NetworkTerms,
		[]interface{}{"AcmeNet", "CPA", "7", "15", "2023-12-31", "2024-01-06", "2024-01-21", "1250"},
	)

	w := doJSON(s, http.MethodPost, "/networks", map[string]interface{}{
		"action":   "pushMultipleToBeInvoiced",
		"networks": []string{"AcmeNet", "Nobody"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []interface{}{"AcmeNet"}, body["updatedNetworks"])
	require.Len(t, body["skipped"], 1)

	w = doJSON(s, http.MethodPost, "/networks", map[string]interface{}{
		"action":     "updateDashAmount",
		"network":    "AcmeNet",
		"periodEnd":  "2024-01-06",
		"dashAmount": "$1,200.00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(s, http.MethodGet, "/networks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode(t, w)
	for _, key := range []string{"networkTerms", "toBeInvoiced", "invoices", "paidInvoices"} {
		assert.Contains(t, snap, key)
	}
	pending := snap["toBeInvoiced"].([]interface{})
	require.Len(t, pending, 1)
	assert.Equal(t, "1200", pending[0].(map[string]interface{})["dashAmount"])
}

func TestNetworksInvalidAction(t *testing.T) {
	s, _ := setupServer(t)
	w := doJSON(s, http.MethodPost, "/networks", map[string]interface{}{"action": "resetEverything"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidAction", decode(t, w)["kind"])
}

func TestDashboardAndTodo(t *testing.T) {
	s, mem := setupServer(t)
	mem.Seed(store.Invoices, []interface{}{"AcmeNet", "500", "2024-02-01"})
	mem.Seed(store.NetworkTerms, []interface{}{"Beta", "CPL", "14", "30", "2024-01-01", "2024-01-14", "2024-02-13", "300"})

	w := doJSON(s, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode(t, w)["summary"].(map[string]interface{})
	assert.Equal(t, float64(1), summary["overdueCount"])

	w = doJSON(s, http.MethodGet, "/todo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	todo := decode(t, w)
	assert.Len(t, todo["invoicesToCreate"], 1)
	assert.Len(t, todo["followUps"], 1)
}

func TestJournalPendingEndpoint(t *testing.T) {
	s, mem := setupServer(t)
	mem.Seed(store.Invoices, []interface{}{"AcmeNet", "500", "2024-02-01"})
	mem.FailOn("delete", store.Invoices, errors.New("quota exceeded"))

	w := doJSON(s, http.MethodPost, "/invoices", map[string]interface{}{
		"action":  "markAsPaid",
		"invoice": map[string]interface{}{"network": "AcmeNet", "amount": 500, "dueDate": "2024-02-01"},
		"datePaid": "2024-02-05", "amountPaid": 500,
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = doJSON(s, http.MethodGet, "/journal/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["pending"], 1)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := setupServer(t)
	w := doJSON(s, http.MethodOptions, "/invoices", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := setupServer(t)
	w := doJSON(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mem := store.NewMemory()
	s := New(lifecycle.NewEngine(mem), Options{RateLimit: 0.001, Burst: 1})

	body := map[string]interface{}{"action": "archive", "invoice": map[string]interface{}{"network": "A"}}
	first := doJSON(s, http.MethodPost, "/invoices", body)
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := doJSON(s, http.MethodPost, "/invoices", body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Reads are not limited.
	assert.Equal(t, http.StatusOK, doJSON(s, http.MethodGet, "/networks", nil).Code)
}
