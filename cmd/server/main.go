/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the time-clock server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from the environment
  2. Configure logging
  3. Initialize the SQLite store
  4. Wire registry, engine, and authenticator over the store
  5. Start the rollover scheduler and HTTP server

ENVIRONMENT:
  SERVER_PORT  HTTP server port (default: 8080)
  DB_PATH      SQLite database path (default: timeclock.db,
               ":memory:" for an in-memory database)
  ADMIN_PIN    Administrator PIN (default: 1234)
  LOG_PRETTY   Console logging for local development

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections (30s drain)
  2. Stop the rollover scheduler
  3. Close the database

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/warp/timeclock/api"
	"github.com/warp/timeclock/clock"
	"github.com/warp/timeclock/config"
	"github.com/warp/timeclock/logger"
	"github.com/warp/timeclock/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.LogPretty)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to initialize database")
	}
	defer store.Close()

	registry := clock.NewRegistry(store)
	engine := clock.NewEngine(store)
	auth := clock.NewAuthenticator(store, cfg.AdminPIN)

	handler := api.NewHandler(registry, engine, auth, log.Logger)
	router := api.NewRouter(handler)

	scheduler := api.NewRolloverScheduler(engine, log.Logger)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
