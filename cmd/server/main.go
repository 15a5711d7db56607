/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Load the contribution regime (file or built-in)
  3. Initialize store (SQLite or in-memory)
  4. Create API handler and router
  5. Start server with graceful shutdown

CONFIGURATION:
  See config/config.go for every flag and PAYROLL_* variable.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (-shutdown-timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Run with file database and a banded regime
  ./server -db="./data/payroll.db" -regime=regime.yaml

  # Run without persistence
  ./server -store=memory

SEE ALSO:
  - api/server.go: Router configuration
  - factory/regime.go: Regime file format
*/
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/store"
	"github.com/warp/payroll-engine/store/memory"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		log.Fatalf("[Server] Invalid configuration: %v", err)
	}

	regime := factory.DefaultRegime()
	if cfg.RegimePath != "" {
		regime, err = factory.NewRegimeFactory().LoadFile(cfg.RegimePath)
		if err != nil {
			log.Fatalf("[Server] Failed to load regime: %v", err)
		}
	}
	log.Printf("[Server] Contribution regime: %s", regime.Name)

	s, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("[Server] Failed to initialize store: %v", err)
	}
	defer closeStore()

	handler := api.NewHandler(s, regime, cfg.BatchWorkers)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Server] Listening on http://localhost%s (store: %s)", cfg.Addr(), cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[Server] Failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[Server] Forced to shutdown: %v", err)
		return
	}

	log.Println("[Server] Stopped")
}

func openStore(cfg config.Config) (store.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		return memory.New(), func() {}, nil
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := db.Close(); err != nil {
			log.Printf("[Server] Failed to close database: %v", err)
		}
	}, nil
}
