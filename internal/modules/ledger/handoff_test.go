package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandoffCarriesRawAmount(t *testing.T) {
	store := newTestStore(t)
	seedTestStore(t, store)

	payload, err := Handoff(store, "1")
	require.NoError(t, err)

	assert.Equal(t, "1", payload.ID)
	assert.Equal(t, "50.00", payload.Amount)
	assert.Equal(t, "2024-01-10", payload.Date)
	assert.Equal(t, "Coffee", payload.Description)
	assert.Equal(t, "debit", payload.Type)
}

func TestHandoffUnknownID(t *testing.T) {
	store := newTestStore(t)
	seedTestStore(t, store)

	_, err := Handoff(store, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetailPayloadMsgpackRoundTrip(t *testing.T) {
	store := newTestStore(t)
	seedTestStore(t, store)

	payload, err := Handoff(store, "2")
	require.NoError(t, err)

	data, err := payload.EncodeMsgpack()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := DecodeDetailPayload(data)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecodeDetailPayloadGarbage(t *testing.T) {
	_, err := DecodeDetailPayload([]byte{0xc1, 0xff})
	assert.Error(t, err)
}
