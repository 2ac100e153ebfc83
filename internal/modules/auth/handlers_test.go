package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) (Status, bool) {
	t.Helper()

	var resp struct {
		Status
		Masked bool `json:"masked"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Status, resp.Masked
}

func TestHandleActivate(t *testing.T) {
	fake := &fakeAuthenticator{hasHardware: true, enrolled: true, result: Result{OK: true}}
	handlers := NewHandlers(newTestGate(fake, 0), zerolog.Nop())

	req := httptest.NewRequest("POST", "/activate", nil)
	w := httptest.NewRecorder()
	handlers.HandleActivate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	status, masked := decodeStatus(t, w)
	assert.Equal(t, StateAuthenticated, status.State)
	assert.False(t, masked)
}

func TestHandleActivateFailure(t *testing.T) {
	fake := &fakeAuthenticator{hasHardware: true, enrolled: true, result: Result{Cancelled: true}}
	handlers := NewHandlers(newTestGate(fake, 0), zerolog.Nop())

	req := httptest.NewRequest("POST", "/activate", nil)
	w := httptest.NewRecorder()
	handlers.HandleActivate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	status, masked := decodeStatus(t, w)
	assert.Equal(t, StateFailed, status.State)
	assert.Equal(t, NoticeCancelled, status.Reason)
	assert.True(t, masked)
}

func TestHandleDeactivate(t *testing.T) {
	fake := &fakeAuthenticator{hasHardware: true, enrolled: true, result: Result{OK: true}}
	gate := newTestGate(fake, 0)
	handlers := NewHandlers(gate, zerolog.Nop())

	w := httptest.NewRecorder()
	handlers.HandleActivate(w, httptest.NewRequest("POST", "/activate", nil))

	w = httptest.NewRecorder()
	handlers.HandleDeactivate(w, httptest.NewRequest("POST", "/deactivate", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	status, masked := decodeStatus(t, w)
	assert.Equal(t, StateUnauthenticated, status.State)
	assert.True(t, masked)
}

func TestHandleStatus(t *testing.T) {
	fake := &fakeAuthenticator{}
	handlers := NewHandlers(newTestGate(fake, 0), zerolog.Nop())

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()
	handlers.HandleStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	status, masked := decodeStatus(t, w)
	assert.Equal(t, StateUnauthenticated, status.State)
	assert.True(t, masked)
}
