package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/ledgerview/internal/events"
	"github.com/aristath/ledgerview/internal/modules/auth"
	"github.com/aristath/ledgerview/internal/modules/ledger"
)

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	store       *ledger.Store
	refresher   *ledger.Refresher
	gate        *auth.Gate
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(store *ledger.Store, refresher *ledger.Refresher, gate *auth.Gate, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		startupTime: time.Now(),
		store:       store,
		refresher:   refresher,
		gate:        gate,
	}
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status           string  `json:"status"` // "healthy" or "degraded"
	UptimeSeconds    float64 `json:"uptime_seconds"`
	TransactionCount int     `json:"transaction_count"`
	Refreshing       bool    `json:"refreshing"`
	AuthState        string  `json:"auth_state"`
	Masked           bool    `json:"masked"`
	CPUPercent       float64 `json:"cpu_percent"`
	RAMPercent       float64 `json:"ram_percent"`
	Goroutines       int     `json:"goroutines"`
	AllocMB          uint64  `json:"alloc_mb"`
}

// GetSystemStatusSnapshot returns a snapshot of the current system status.
func (h *SystemHandlers) GetSystemStatusSnapshot() SystemStatusResponse {
	status := "healthy"

	count, err := h.store.Count()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to count transactions")
		status = "degraded"
	}

	refreshStatus := h.refresher.Status()
	gateStatus := h.gate.Status()

	cpuPercent, ramPercent := h.getSystemStats()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemStatusResponse{
		Status:           status,
		UptimeSeconds:    time.Since(h.startupTime).Seconds(),
		TransactionCount: count,
		Refreshing:       refreshStatus.Refreshing,
		AuthState:        string(gateStatus.State),
		Masked:           h.gate.Masked(),
		CPUPercent:       cpuPercent,
		RAMPercent:       ramPercent,
		Goroutines:       runtime.NumGoroutine(),
		AllocMB:          m.Alloc / 1024 / 1024,
	}
}

// HandleSystemStatus returns comprehensive system status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	response := h.GetSystemStatusSnapshot()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so status requests stay fast
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// SystemStatusJob periodically publishes a system status snapshot on the
// event bus so connected clients see it without polling.
type SystemStatusJob struct {
	handlers     *SystemHandlers
	eventManager *events.Manager
}

// NewSystemStatusJob creates a system status job
func NewSystemStatusJob(handlers *SystemHandlers, eventManager *events.Manager) *SystemStatusJob {
	return &SystemStatusJob{
		handlers:     handlers,
		eventManager: eventManager,
	}
}

// Name returns the job name
func (j *SystemStatusJob) Name() string {
	return "system_status"
}

// Run collects a snapshot and emits it
func (j *SystemStatusJob) Run() error {
	snapshot := j.handlers.GetSystemStatusSnapshot()

	j.eventManager.Emit(events.SystemStatusChanged, "system", map[string]interface{}{
		"status":            snapshot.Status,
		"uptime_seconds":    snapshot.UptimeSeconds,
		"transaction_count": snapshot.TransactionCount,
		"refreshing":        snapshot.Refreshing,
		"auth_state":        snapshot.AuthState,
		"masked":            snapshot.Masked,
		"cpu_percent":       snapshot.CPUPercent,
		"ram_percent":       snapshot.RAMPercent,
	})

	return nil
}
