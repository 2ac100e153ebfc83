package auth

import (
	"time"
)

// SessionSweepJob expires stale authenticated sessions on a schedule.
// It only matters when a session TTL is configured; with TTL zero the gate
// never persists across activations and the sweep is a no-op.
type SessionSweepJob struct {
	gate *Gate
}

// NewSessionSweepJob creates the sweep job for a gate
func NewSessionSweepJob(gate *Gate) *SessionSweepJob {
	return &SessionSweepJob{gate: gate}
}

// Name returns the job name
func (j *SessionSweepJob) Name() string {
	return "auth_session_sweep"
}

// Run expires the session if its TTL has elapsed
func (j *SessionSweepJob) Run() error {
	j.gate.ExpireSession(time.Now())
	return nil
}
