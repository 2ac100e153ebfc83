package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/ledgerview/internal/config"
	"github.com/aristath/ledgerview/internal/database"
	"github.com/aristath/ledgerview/internal/events"
	"github.com/aristath/ledgerview/internal/modules/auth"
	"github.com/aristath/ledgerview/internal/modules/ledger"
	"github.com/aristath/ledgerview/internal/scheduler"
	"github.com/aristath/ledgerview/internal/server"
	"github.com/aristath/ledgerview/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet, write directly to stderr
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting ledgerview")

	// Initialize in-memory database
	db, err := database.NewInMemory()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Event bus and manager
	eventBus := events.NewBus()
	eventManager := events.NewManager(eventBus, log)

	// Transaction store with seed data
	store, err := ledger.NewStore(db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create transaction store")
	}

	seed, err := ledger.LoadSeed()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load seed transactions")
	}
	if err := store.Initialize(seed); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize transaction store")
	}

	// Authentication gate. A bridge URL selects the platform biometric
	// bridge; otherwise the static authenticator drives dev setups.
	var authenticator auth.Authenticator
	if cfg.AuthBridgeURL != "" {
		authenticator = auth.NewBridgeClient(cfg.AuthBridgeURL, log)
	} else {
		authenticator = auth.NewStaticAuthenticator(cfg.AuthStaticResult)
	}
	gate := auth.NewGate(authenticator, eventManager, cfg.AuthPrompt, cfg.AuthSessionTTL, log)

	// Refresh operation
	refresher := ledger.NewRefresher(store, eventManager, cfg.RefreshDelay, log)

	// HTTP handlers
	ledgerHandlers := ledger.NewHandlers(store, refresher, gate, cfg.MaskToken, log)
	authHandlers := auth.NewHandlers(gate, log)
	systemHandlers := server.NewSystemHandlers(store, refresher, gate, log)
	eventsStream := server.NewEventsStreamHandler(eventBus, log)
	eventsSocket := server.NewEventsSocketHandler(eventBus, log)

	// Scheduler and background jobs
	sched := scheduler.New(log)
	if err := registerJobs(sched, gate, systemHandlers, eventManager, cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:           cfg.Port,
		Log:            log,
		DevMode:        cfg.DevMode,
		LedgerHandlers: ledgerHandlers,
		AuthHandlers:   authHandlers,
		SystemHandlers: systemHandlers,
		EventsStream:   eventsStream,
		EventsSocket:   eventsSocket,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(
	sched *scheduler.Scheduler,
	gate *auth.Gate,
	systemHandlers *server.SystemHandlers,
	eventManager *events.Manager,
	cfg *config.Config,
) error {
	// Session sweeps only matter when sessions can outlive an activation
	if cfg.AuthSessionTTL > 0 {
		if err := sched.AddJob("@every 30s", auth.NewSessionSweepJob(gate)); err != nil {
			return err
		}
	}

	return sched.AddJob("@every 15s", server.NewSystemStatusJob(systemHandlers, eventManager))
}
