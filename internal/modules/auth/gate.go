package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/ledgerview/internal/events"
)

// State is the authentication-gate state for the current view activation
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	StateFailed          State = "failed"
)

// User-facing notices. Each failure mode gets a distinct message; only truly
// unexpected errors fall back to the generic restart notice.
const (
	NoticeNoHardware  = "Your device does not support biometric authentication."
	NoticeNotEnrolled = "No biometrics are registered on this device."
	NoticeCancelled   = "Authentication was cancelled."
	NoticeFailed      = "Unable to authenticate using biometrics."
	NoticeUnexpected  = "An error occurred while trying to authenticate. Please restart the app."
)

// Status is the externally visible gate state
type Status struct {
	State           State      `json:"state"`
	Reason          string     `json:"reason,omitempty"`
	AuthenticatedAt *time.Time `json:"authenticated_at,omitempty"`
}

// Gate governs whether monetary amounts are revealed. It fails closed:
// amounts stay masked unless the state is exactly StateAuthenticated.
//
// One authentication attempt runs per activation. Deactivating the view
// while an attempt is in flight bumps the activation generation, and the
// stale result is discarded without mutating state.
type Gate struct {
	authenticator Authenticator
	eventManager  *events.Manager
	prompt        string
	sessionTTL    time.Duration
	log           zerolog.Logger

	mu                    sync.Mutex
	state                 State
	reason                string
	capabilityUnavailable bool
	generation            uint64
	authenticatedAt       *time.Time
}

// NewGate creates an authentication gate.
//
// sessionTTL controls whether an authenticated session survives view
// re-activation: zero means every activation re-runs the check; a positive
// TTL lets StateAuthenticated persist until it expires.
func NewGate(authenticator Authenticator, eventManager *events.Manager, prompt string, sessionTTL time.Duration, log zerolog.Logger) *Gate {
	return &Gate{
		authenticator: authenticator,
		eventManager:  eventManager,
		prompt:        prompt,
		sessionTTL:    sessionTTL,
		log:           log.With().Str("component", "auth_gate").Logger(),
		state:         StateUnauthenticated,
	}
}

// Activate runs the authentication check for a view activation and blocks
// until it settles. Concurrent activations do not start a second attempt;
// they observe the in-flight state.
func (g *Gate) Activate(ctx context.Context) Status {
	g.mu.Lock()

	// A capability failure is permanent for the session; don't re-probe
	if g.capabilityUnavailable {
		status := g.statusLocked()
		g.mu.Unlock()
		return status
	}

	// One attempt per activation
	if g.state == StateAuthenticating {
		status := g.statusLocked()
		g.mu.Unlock()
		return status
	}

	// Session persistence policy: reuse a live authenticated session
	if g.state == StateAuthenticated && g.sessionValidLocked(time.Now()) {
		status := g.statusLocked()
		g.mu.Unlock()
		return status
	}

	generation := g.generation
	g.setStateLocked(StateAuthenticating, "")
	g.mu.Unlock()

	g.emitStateChanged(StateAuthenticating, "")

	state, reason, capabilityUnavailable := g.check(ctx)

	g.mu.Lock()
	if g.generation != generation {
		// View deactivated while authenticating; discard the stale result
		g.log.Debug().Msg("Discarding stale authentication result")
		status := g.statusLocked()
		g.mu.Unlock()
		return status
	}

	g.capabilityUnavailable = capabilityUnavailable
	g.setStateLocked(state, reason)
	if state == StateAuthenticated {
		now := time.Now()
		g.authenticatedAt = &now
	} else {
		g.authenticatedAt = nil
	}
	status := g.statusLocked()
	g.mu.Unlock()

	g.emitStateChanged(state, reason)
	return status
}

// Deactivate records that the view went away. An in-flight attempt's result
// will be discarded. Without a session TTL the authenticated state is
// dropped immediately; with one it survives until expiry.
func (g *Gate) Deactivate() {
	g.mu.Lock()
	g.generation++

	changed := false
	if g.state == StateAuthenticating {
		g.setStateLocked(StateUnauthenticated, "")
		changed = true
	} else if g.state == StateAuthenticated && g.sessionTTL == 0 {
		g.setStateLocked(StateUnauthenticated, "")
		g.authenticatedAt = nil
		changed = true
	}
	g.mu.Unlock()

	if changed {
		g.emitStateChanged(StateUnauthenticated, "")
	}
	g.log.Debug().Msg("View deactivated")
}

// Status returns the current gate status
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statusLocked()
}

// Masked reports whether amounts must be replaced with the masking token
func (g *Gate) Masked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state != StateAuthenticated
}

// ExpireSession drops an authenticated session whose TTL has elapsed.
// Called by the background sweep job.
func (g *Gate) ExpireSession(now time.Time) bool {
	g.mu.Lock()
	if g.state != StateAuthenticated || g.sessionValidLocked(now) {
		g.mu.Unlock()
		return false
	}

	g.setStateLocked(StateUnauthenticated, "")
	g.authenticatedAt = nil
	g.mu.Unlock()

	g.log.Info().Msg("Authenticated session expired")
	g.emitStateChanged(StateUnauthenticated, "")
	return true
}

// check calls out to the platform service. Fail-closed: every unexpected
// error maps to StateFailed, never to StateAuthenticated.
func (g *Gate) check(ctx context.Context) (state State, reason string, capabilityUnavailable bool) {
	hasHardware, err := g.authenticator.HasHardware(ctx)
	if err != nil {
		g.log.Error().Err(err).Msg("Hardware capability check failed")
		return StateFailed, NoticeUnexpected, false
	}
	if !hasHardware {
		return StateFailed, NoticeNoHardware, true
	}

	enrolled, err := g.authenticator.IsEnrolled(ctx)
	if err != nil {
		g.log.Error().Err(err).Msg("Enrollment check failed")
		return StateFailed, NoticeUnexpected, false
	}
	if !enrolled {
		return StateFailed, NoticeNotEnrolled, true
	}

	result, err := g.authenticator.Authenticate(ctx, g.prompt)
	if err != nil {
		g.log.Error().Err(err).Msg("Authentication call failed")
		return StateFailed, NoticeUnexpected, false
	}

	switch {
	case result.OK:
		return StateAuthenticated, "", false
	case result.Cancelled:
		return StateFailed, NoticeCancelled, false
	default:
		return StateFailed, NoticeFailed, false
	}
}

func (g *Gate) sessionValidLocked(now time.Time) bool {
	if g.sessionTTL <= 0 || g.authenticatedAt == nil {
		return false
	}
	return now.Sub(*g.authenticatedAt) < g.sessionTTL
}

func (g *Gate) setStateLocked(state State, reason string) {
	g.state = state
	g.reason = reason
}

func (g *Gate) statusLocked() Status {
	return Status{
		State:           g.state,
		Reason:          g.reason,
		AuthenticatedAt: g.authenticatedAt,
	}
}

func (g *Gate) emitStateChanged(state State, reason string) {
	if g.eventManager == nil {
		return
	}
	data := map[string]interface{}{
		"state": string(state),
	}
	if reason != "" {
		data["reason"] = reason
	}
	g.eventManager.Emit(events.AuthStateChanged, "auth", data)
}
