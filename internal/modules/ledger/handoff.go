package ledger

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// DetailPayload is the flat field set handed to the external detail view on
// item selection. Every value is string-encoded.
//
// Amount is the raw value: masking is a rendering concern of the list view,
// not a property of the record. Whether the detail view masks again is its
// own decision.
type DetailPayload struct {
	ID          string `json:"id" msgpack:"id"`
	Amount      string `json:"amount" msgpack:"amount"`
	Date        string `json:"date" msgpack:"date"`
	Description string `json:"description" msgpack:"description"`
	Type        string `json:"type" msgpack:"type"`
}

// Handoff resolves a selected transaction id to its detail payload.
// Returns ErrNotFound (wrapped) when the id is no longer in the store.
func Handoff(store *Store, id string) (*DetailPayload, error) {
	record, err := store.Get(id)
	if err != nil {
		return nil, err
	}

	return &DetailPayload{
		ID:          record.ID,
		Amount:      record.Amount.StringFixed(2),
		Date:        record.Date.String(),
		Description: record.Description,
		Type:        string(record.Type),
	}, nil
}

// EncodeMsgpack serializes the payload for transports that prefer a compact
// binary frame over JSON.
func (p *DetailPayload) EncodeMsgpack() ([]byte, error) {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode detail payload: %w", err)
	}
	return data, nil
}

// DecodeDetailPayload decodes a msgpack-encoded payload
func DecodeDetailPayload(data []byte) (*DetailPayload, error) {
	var payload DetailPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode detail payload: %w", err)
	}
	return &payload, nil
}
