package ledger

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/ledgerview/internal/events"
)

// NoticeRefreshFailed is the user-facing message surfaced when a refresh
// fails. The store is left unchanged and the user may retry.
const NoticeRefreshFailed = "Could not refresh transactions. Please try again."

// refreshDescription labels the synthetic transaction appended by a refresh
const refreshDescription = "Refreshed transaction"

// RefreshStatus reports the observable state of the refresh operation
type RefreshStatus struct {
	Refreshing      bool       `json:"refreshing"`
	LastError       string     `json:"last_error,omitempty"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at,omitempty"`
}

// Refresher simulates an asynchronous data fetch that prepends one synthetic
// transaction to the store. At most one refresh runs at a time; a second
// invocation while one is in flight is rejected with ErrRefreshInFlight.
type Refresher struct {
	store        *Store
	eventManager *events.Manager
	delay        time.Duration
	log          zerolog.Logger

	mu              sync.Mutex
	inFlight        bool
	lastError       string
	lastRefreshedAt *time.Time
}

// NewRefresher creates a refresher with the given simulated latency
func NewRefresher(store *Store, eventManager *events.Manager, delay time.Duration, log zerolog.Logger) *Refresher {
	return &Refresher{
		store:        store,
		eventManager: eventManager,
		delay:        delay,
		log:          log.With().Str("component", "refresher").Logger(),
	}
}

// Refresh runs one simulated fetch-and-prepend cycle. It blocks for the
// configured delay, then appends a synthetic transaction. The refreshing
// status is cleared on every exit path.
func (r *Refresher) Refresh(ctx context.Context) (*Transaction, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	return r.run(ctx)
}

// StartAsync claims the in-flight slot synchronously, so callers get the
// mutual-exclusion rejection immediately, then runs the cycle in the
// background.
func (r *Refresher) StartAsync(ctx context.Context) error {
	if err := r.begin(); err != nil {
		return err
	}
	go func() {
		_, _ = r.run(ctx)
	}()
	return nil
}

func (r *Refresher) run(ctx context.Context) (*Transaction, error) {
	r.eventManager.Emit(events.RefreshStarted, "ledger", map[string]interface{}{
		"delay_ms": r.delay.Milliseconds(),
	})

	// Simulated I/O latency, cancellable
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		err := fmt.Errorf("refresh cancelled: %w", ctx.Err())
		r.fail(err)
		return nil, err
	}

	record := r.newTransaction()
	if err := r.store.Prepend(record); err != nil {
		err = fmt.Errorf("failed to append refreshed transaction: %w", err)
		r.fail(err)
		return nil, err
	}

	r.succeed()

	r.eventManager.Emit(events.TransactionAdded, "ledger", map[string]interface{}{
		"id":   record.ID,
		"type": string(record.Type),
		"date": record.Date.String(),
	})
	r.eventManager.Emit(events.RefreshCompleted, "ledger", map[string]interface{}{
		"id": record.ID,
	})

	r.log.Info().Str("id", record.ID).Msg("Refresh completed")
	return &record, nil
}

// Status returns the current refresh status
func (r *Refresher) Status() RefreshStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RefreshStatus{
		Refreshing:      r.inFlight,
		LastError:       r.lastError,
		LastRefreshedAt: r.lastRefreshedAt,
	}
}

// begin marks the refresh in flight, rejecting concurrent invocations
func (r *Refresher) begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFlight {
		return ErrRefreshInFlight
	}
	r.inFlight = true
	r.lastError = ""
	return nil
}

func (r *Refresher) fail(err error) {
	r.mu.Lock()
	r.inFlight = false
	r.lastError = NoticeRefreshFailed
	r.mu.Unlock()

	r.eventManager.Emit(events.RefreshFailed, "ledger", map[string]interface{}{
		"error":  err.Error(),
		"notice": NoticeRefreshFailed,
	})
	r.log.Error().Err(err).Msg("Refresh failed")
}

func (r *Refresher) succeed() {
	now := time.Now()
	r.mu.Lock()
	r.inFlight = false
	r.lastError = ""
	r.lastRefreshedAt = &now
	r.mu.Unlock()
}

// newTransaction builds the synthetic record: fresh unique id, pseudo-random
// amount in [0, 1000) at two decimal places, today's date, and a uniformly
// random direction.
func (r *Refresher) newTransaction() Transaction {
	recType := TypeCredit
	if rand.Intn(2) == 1 {
		recType = TypeDebit
	}

	return Transaction{
		ID:          uuid.New().String(),
		Amount:      decimal.New(int64(rand.Intn(100000)), -2),
		Date:        Today(),
		Description: refreshDescription,
		Type:        recType,
	}
}
