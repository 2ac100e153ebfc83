// Package auth implements the authentication gate that decides whether the
// viewer may see monetary amounts. The biometric check itself is an external
// collaborator behind the Authenticator interface.
package auth

import (
	"context"

	"github.com/aristath/ledgerview/internal/config"
)

// Result is the outcome of a biometric prompt. Cancelled distinguishes an
// explicit user dismissal from a failed match; both leave amounts masked.
type Result struct {
	OK        bool   `json:"success"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Authenticator is the platform biometric service consumed by the gate.
// Implementations: BridgeClient (HTTP to the platform bridge) and
// StaticAuthenticator (config-driven, for development and tests).
type Authenticator interface {
	HasHardware(ctx context.Context) (bool, error)
	IsEnrolled(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, prompt string) (Result, error)
}

// StaticAuthenticator returns a fixed outcome, selected by configuration.
// It stands in for the platform service when no bridge URL is configured.
type StaticAuthenticator struct {
	result string
}

// NewStaticAuthenticator creates an authenticator with a fixed outcome
func NewStaticAuthenticator(result string) *StaticAuthenticator {
	return &StaticAuthenticator{result: result}
}

// HasHardware reports biometric hardware availability
func (a *StaticAuthenticator) HasHardware(ctx context.Context) (bool, error) {
	return a.result != config.StaticAuthNoHardware, nil
}

// IsEnrolled reports whether a biometric credential is enrolled
func (a *StaticAuthenticator) IsEnrolled(ctx context.Context) (bool, error) {
	return a.result != config.StaticAuthNotEnrolled, nil
}

// Authenticate simulates the biometric prompt
func (a *StaticAuthenticator) Authenticate(ctx context.Context, prompt string) (Result, error) {
	switch a.result {
	case config.StaticAuthSuccess:
		return Result{OK: true}, nil
	case config.StaticAuthCancel:
		return Result{Cancelled: true}, nil
	default:
		return Result{Error: "biometric mismatch"}, nil
	}
}
