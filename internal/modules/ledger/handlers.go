package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AmountMasker decides whether monetary amounts may be revealed.
// The auth gate satisfies this; the ledger module never looks at why.
type AmountMasker interface {
	Masked() bool
}

// Handlers contains the HTTP handlers for the ledger API
type Handlers struct {
	store     *Store
	refresher *Refresher
	masker    AmountMasker
	maskToken string
	log       zerolog.Logger
}

// NewHandlers creates a new ledger handlers instance
func NewHandlers(store *Store, refresher *Refresher, masker AmountMasker, maskToken string, log zerolog.Logger) *Handlers {
	return &Handlers{
		store:     store,
		refresher: refresher,
		masker:    masker,
		maskToken: maskToken,
		log:       log.With().Str("handler", "ledger").Logger(),
	}
}

// TransactionView is a rendered list item. Amount is already masked here
// when the gate is closed; the raw value never reaches the list client
// while masked.
type TransactionView struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type listResponse struct {
	Transactions []TransactionView `json:"transactions"`
	Count        int               `json:"count"`
	Masked       bool              `json:"masked"`
}

// HandleListTransactions returns the derived view of the ledger.
// GET /api/ledger/transactions?search=&type=
func (h *Handlers) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	query := Query{
		Search: r.URL.Query().Get("search"),
	}

	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		recType, err := TypeFromString(typeParam)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid type filter: must be credit or debit")
			return
		}
		query.Type = &recType
	}

	snapshot, err := h.store.Snapshot()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to snapshot store")
		h.writeError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	view := View(snapshot, query)
	masked := h.masker.Masked()

	items := make([]TransactionView, 0, len(view))
	for _, record := range view {
		amount := record.Amount.StringFixed(2)
		if masked {
			amount = h.maskToken
		}
		items = append(items, TransactionView{
			ID:          record.ID,
			Amount:      amount,
			Date:        record.Date.String(),
			Description: record.Description,
			Type:        string(record.Type),
		})
	}

	h.writeJSON(w, http.StatusOK, listResponse{
		Transactions: items,
		Count:        len(items),
		Masked:       masked,
	})
}

// HandleGetTransaction performs the detail hand-off for a selected item.
// The payload carries the raw amount; masking is a list-view concern.
// GET /api/ledger/transactions/{id}
func (h *Handlers) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payload, err := Handoff(h.store, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("Detail hand-off failed")
		h.writeError(w, http.StatusInternalServerError, "Failed to load transaction")
		return
	}

	if wantsMsgpack(r) {
		data, err := payload.EncodeMsgpack()
		if err != nil {
			h.log.Error().Err(err).Str("id", id).Msg("Failed to encode detail payload")
			h.writeError(w, http.StatusInternalServerError, "Failed to encode transaction")
			return
		}
		w.Header().Set("Content-Type", "application/msgpack")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	h.writeJSON(w, http.StatusOK, payload)
}

// HandleRefresh starts a refresh cycle.
// POST /api/ledger/refresh
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	// The cycle outlives the triggering request on purpose
	if err := h.refresher.StartAsync(context.Background()); err != nil {
		if errors.Is(err, ErrRefreshInFlight) {
			h.writeError(w, http.StatusConflict, "A refresh is already in progress")
			return
		}
		h.log.Error().Err(err).Msg("Failed to start refresh")
		h.writeError(w, http.StatusInternalServerError, NoticeRefreshFailed)
		return
	}

	h.writeJSON(w, http.StatusAccepted, h.refresher.Status())
}

// HandleRefreshStatus reports the refresh state.
// GET /api/ledger/refresh/status
func (h *Handlers) HandleRefreshStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.refresher.Status())
}

func wantsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/msgpack")
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
