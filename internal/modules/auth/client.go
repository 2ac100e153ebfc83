package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// BridgeClient talks to the local platform biometric bridge over HTTP.
// The bridge wraps the device's native biometric APIs and exposes the three
// operations the gate consumes.
type BridgeClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewBridgeClient creates a new biometric bridge client
func NewBridgeClient(baseURL string, log zerolog.Logger) *BridgeClient {
	return &BridgeClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			// The authenticate call waits on the user; give it room
			Timeout: 60 * time.Second,
		},
		log: log.With().Str("component", "auth_bridge_client").Logger(),
	}
}

type capabilityResponse struct {
	Available bool `json:"available"`
}

// HasHardware asks the bridge whether biometric hardware exists
func (c *BridgeClient) HasHardware(ctx context.Context) (bool, error) {
	return c.capability(ctx, "hardware")
}

// IsEnrolled asks the bridge whether a biometric credential is enrolled
func (c *BridgeClient) IsEnrolled(ctx context.Context) (bool, error) {
	return c.capability(ctx, "enrolled")
}

func (c *BridgeClient) capability(ctx context.Context, kind string) (bool, error) {
	url := fmt.Sprintf("%s/api/v1/biometrics/%s", c.baseURL, kind)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("failed to reach biometric bridge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("biometric bridge returned status %d: %s", resp.StatusCode, string(body))
	}

	var response capabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.Available, nil
}

type authenticateRequest struct {
	Prompt string `json:"prompt"`
}

// Authenticate asks the bridge to run the biometric prompt
func (c *BridgeClient) Authenticate(ctx context.Context, prompt string) (Result, error) {
	reqBody, err := json.Marshal(authenticateRequest{Prompt: prompt})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/biometrics/authenticate", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("failed to reach biometric bridge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("biometric bridge returned status %d: %s", resp.StatusCode, string(body))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	c.log.Info().
		Bool("success", result.OK).
		Bool("cancelled", result.Cancelled).
		Dur("elapsed", time.Since(startTime)).
		Msg("Biometric prompt completed")

	return result, nil
}
