// Package events provides event management functionality.
package events

import (
	"time"
)

// EventType represents different event types
type EventType string

const (
	// Authentication gate events
	AuthStateChanged EventType = "AUTH_STATE_CHANGED"

	// Refresh operation lifecycle
	RefreshStarted   EventType = "REFRESH_STARTED"
	RefreshCompleted EventType = "REFRESH_COMPLETED"
	RefreshFailed    EventType = "REFRESH_FAILED"

	// Store events
	TransactionAdded EventType = "TRANSACTION_ADDED"

	// System events
	SystemStatusChanged EventType = "SYSTEM_STATUS_CHANGED"
	ErrorOccurred       EventType = "ERROR_OCCURRED"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}

// Handler is invoked for every event of a subscribed type
type Handler func(event *Event)
