// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

/*
main.go - Service Entry Point

Wires configuration, logging, storage, the TMDb-backed catalog and the
recommendation engine into the HTTP server, then runs until SIGINT or
SIGTERM triggers a graceful shutdown.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/api"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/catalog"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/config"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/logging"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/metrics"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/recommend"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("version", api.Version).
		Int("port", cfg.Server.Port).
		Msg("Starting Cinemate backend")

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tmdb := catalog.NewTMDB(cfg.TMDB)
	cat := catalog.New(tmdb, cfg.Catalog.CachePath, cfg.Catalog.Pages)

	loadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := cat.Load(loadCtx); err != nil {
		cancel()
		return fmt.Errorf("loading movie catalog: %w", err)
	}
	cancel()
	metrics.CatalogMovies.Set(float64(cat.Len()))
	logging.Info().Int("movies", cat.Len()).Bool("offline", tmdb.Offline()).Msg("Catalog ready")

	engine := recommend.NewEngine(db, cfg.Recommend, logging.Logger())

	handler := api.NewHandler(db, cat, tmdb, engine, cfg.Security.CookieSecure)
	router := api.NewRouter(handler, api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
	}))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Info().Msg("Server stopped")
	return nil
}
