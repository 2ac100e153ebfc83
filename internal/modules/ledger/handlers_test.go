package ledger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/ledgerview/internal/events"
)

// stubMasker stands in for the authentication gate
type stubMasker struct {
	masked bool
}

func (m *stubMasker) Masked() bool {
	return m.masked
}

func newTestHandlers(t *testing.T, masked bool) (*Handlers, *Store) {
	t.Helper()

	store := newTestStore(t)
	seedTestStore(t, store)

	manager := events.NewManager(events.NewBus(), zerolog.Nop())
	refresher := NewRefresher(store, manager, time.Millisecond, zerolog.Nop())

	handlers := NewHandlers(store, refresher, &stubMasker{masked: masked}, "****", zerolog.Nop())
	return handlers, store
}

func TestHandleListTransactionsMasked(t *testing.T) {
	handlers, _ := newTestHandlers(t, true)

	req := httptest.NewRequest("GET", "/transactions", nil)
	w := httptest.NewRecorder()
	handlers.HandleListTransactions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Transactions []TransactionView `json:"transactions"`
		Count        int               `json:"count"`
		Masked       bool              `json:"masked"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.True(t, resp.Masked)
	require.Equal(t, 3, resp.Count)
	for _, item := range resp.Transactions {
		assert.Equal(t, "****", item.Amount)
		// Everything except the amount stays visible
		assert.NotEmpty(t, item.ID)
		assert.NotEmpty(t, item.Date)
		assert.NotEmpty(t, item.Description)
		assert.NotEmpty(t, item.Type)
	}
}

func TestHandleListTransactionsUnmasked(t *testing.T) {
	handlers, _ := newTestHandlers(t, false)

	req := httptest.NewRequest("GET", "/transactions", nil)
	w := httptest.NewRecorder()
	handlers.HandleListTransactions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Transactions []TransactionView `json:"transactions"`
		Masked       bool              `json:"masked"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.False(t, resp.Masked)
	require.NotEmpty(t, resp.Transactions)

	// Seed ids 1..3 sorted by date descending: Salary, Groceries, Coffee
	assert.Equal(t, "200.00", resp.Transactions[0].Amount)
	assert.Equal(t, "Salary", resp.Transactions[0].Description)
}

func TestHandleListTransactionsQuery(t *testing.T) {
	handlers, _ := newTestHandlers(t, false)

	req := httptest.NewRequest("GET", "/transactions?search=cof&type=debit", nil)
	w := httptest.NewRecorder()
	handlers.HandleListTransactions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Transactions []TransactionView `json:"transactions"`
		Count        int               `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Coffee", resp.Transactions[0].Description)
}

func TestHandleListTransactionsInvalidTypeFilter(t *testing.T) {
	handlers, _ := newTestHandlers(t, false)

	req := httptest.NewRequest("GET", "/transactions?type=transfer", nil)
	w := httptest.NewRecorder()
	handlers.HandleListTransactions(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func newDetailRouter(handlers *Handlers) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/transactions/{id}", handlers.HandleGetTransaction)
	return router
}

func TestHandleGetTransaction(t *testing.T) {
	handlers, _ := newTestHandlers(t, true)
	router := newDetailRouter(handlers)

	req := httptest.NewRequest("GET", "/transactions/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var payload DetailPayload
	require.NoError(t, json.NewDecoder(w.Body).Decode(&payload))

	// The hand-off carries the raw amount even while the list is masked
	assert.Equal(t, "50.00", payload.Amount)
	assert.Equal(t, "Coffee", payload.Description)
}

func TestHandleGetTransactionNotFound(t *testing.T) {
	handlers, _ := newTestHandlers(t, false)
	router := newDetailRouter(handlers)

	req := httptest.NewRequest("GET", "/transactions/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetTransactionMsgpack(t *testing.T) {
	handlers, _ := newTestHandlers(t, false)
	router := newDetailRouter(handlers)

	req := httptest.NewRequest("GET", "/transactions/2", nil)
	req.Header.Set("Accept", "application/msgpack")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/msgpack", w.Header().Get("Content-Type"))

	payload, err := DecodeDetailPayload(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Salary", payload.Description)
	assert.Equal(t, "200.00", payload.Amount)
}

func TestHandleRefreshAcceptedThenConflict(t *testing.T) {
	store := newTestStore(t)
	seedTestStore(t, store)

	manager := events.NewManager(events.NewBus(), zerolog.Nop())
	refresher := NewRefresher(store, manager, 200*time.Millisecond, zerolog.Nop())
	handlers := NewHandlers(store, refresher, &stubMasker{}, "****", zerolog.Nop())

	req := httptest.NewRequest("POST", "/refresh", nil)
	w := httptest.NewRecorder()
	handlers.HandleRefresh(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)

	// Second trigger while the first is still running
	w = httptest.NewRecorder()
	handlers.HandleRefresh(w, httptest.NewRequest("POST", "/refresh", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Eventually(t, func() bool {
		return !refresher.Status().Refreshing
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandleRefreshStatus(t *testing.T) {
	handlers, _ := newTestHandlers(t, false)

	req := httptest.NewRequest("GET", "/refresh/status", nil)
	w := httptest.NewRecorder()
	handlers.HandleRefreshStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status RefreshStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.False(t, status.Refreshing)
}
