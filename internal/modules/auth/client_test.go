package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAuthenticator(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		result        string
		wantHardware  bool
		wantEnrolled  bool
		wantOK        bool
		wantCancelled bool
	}{
		{"success", "success", true, true, true, false},
		{"failure", "failure", true, true, false, false},
		{"cancel", "cancel", true, true, false, true},
		{"no hardware", "no-hardware", false, true, false, false},
		{"not enrolled", "not-enrolled", true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewStaticAuthenticator(tt.result)

			hasHardware, err := a.HasHardware(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHardware, hasHardware)

			enrolled, err := a.IsEnrolled(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnrolled, enrolled)

			result, err := a.Authenticate(ctx, "test prompt")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, result.OK)
			assert.Equal(t, tt.wantCancelled, result.Cancelled)
		})
	}
}

func TestBridgeClientCapabilities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/biometrics/hardware":
			json.NewEncoder(w).Encode(map[string]bool{"available": true})
		case "/api/v1/biometrics/enrolled":
			json.NewEncoder(w).Encode(map[string]bool{"available": false})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewBridgeClient(srv.URL, zerolog.Nop())

	hasHardware, err := client.HasHardware(context.Background())
	require.NoError(t, err)
	assert.True(t, hasHardware)

	enrolled, err := client.IsEnrolled(context.Background())
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestBridgeClientAuthenticate(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/biometrics/authenticate", r.URL.Path)

		var req struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Prompt

		json.NewEncoder(w).Encode(Result{OK: true})
	}))
	defer srv.Close()

	client := NewBridgeClient(srv.URL, zerolog.Nop())

	result, err := client.Authenticate(context.Background(), "Authenticate to view transactions")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "Authenticate to view transactions", gotPrompt)
}

func TestBridgeClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bridge exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewBridgeClient(srv.URL, zerolog.Nop())

	_, err := client.HasHardware(context.Background())
	assert.Error(t, err)

	_, err = client.Authenticate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestBridgeClientUnreachable(t *testing.T) {
	client := NewBridgeClient("http://127.0.0.1:1", zerolog.Nop())

	_, err := client.HasHardware(context.Background())
	assert.Error(t, err)
}
