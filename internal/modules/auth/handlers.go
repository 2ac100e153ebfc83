package auth

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handlers contains the HTTP handlers for the authentication gate
type Handlers struct {
	gate *Gate
	log  zerolog.Logger
}

// NewHandlers creates a new auth handlers instance
func NewHandlers(gate *Gate, log zerolog.Logger) *Handlers {
	return &Handlers{
		gate: gate,
		log:  log.With().Str("handler", "auth").Logger(),
	}
}

type statusResponse struct {
	Status
	Masked bool `json:"masked"`
}

// HandleActivate runs the gate for a view activation. The request blocks
// while the biometric prompt is outstanding and returns the settled state.
// POST /api/auth/activate
func (h *Handlers) HandleActivate(w http.ResponseWriter, r *http.Request) {
	status := h.gate.Activate(r.Context())
	h.writeJSON(w, http.StatusOK, statusResponse{
		Status: status,
		Masked: h.gate.Masked(),
	})
}

// HandleDeactivate records that the view went away.
// POST /api/auth/deactivate
func (h *Handlers) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.gate.Deactivate()
	h.writeJSON(w, http.StatusOK, statusResponse{
		Status: h.gate.Status(),
		Masked: h.gate.Masked(),
	})
}

// HandleStatus reports the current gate state.
// GET /api/auth/status
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, statusResponse{
		Status: h.gate.Status(),
		Masked: h.gate.Masked(),
	})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
