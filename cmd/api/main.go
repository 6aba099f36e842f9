// Package main is the entry point for the trip store API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/tripstore/internal/config"
	"github.com/pkordes/tripstore/internal/handler"
	"github.com/pkordes/tripstore/internal/ids"
	"github.com/pkordes/tripstore/internal/middleware"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/service"
	"github.com/pkordes/tripstore/internal/store"
	"github.com/pkordes/tripstore/openapi"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use the default logger before ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	// Open runs the embedded migrations before returning.
	opts := []store.Option{store.WithLogger(logger)}
	if cfg.MetricsEnabled {
		opts = append(opts, store.WithMetrics(store.NewMetrics(prometheus.DefaultRegisterer)))
	}
	st, err := openStore(context.Background(), cfg, opts...)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("store ready", "driver", st.Dialect().String())

	svc := service.New(st, repo.New(st), ids.SystemClock)
	if _, err := svc.Settings.Ensure(context.Background()); err != nil {
		slog.Error("failed to initialise settings", "error", err)
		os.Exit(1)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Handle("/openapi.yaml", openapi.Handler())

	api := handler.NewServer(handler.Deps{
		Trips:       svc.Trips,
		Rooms:       svc.Rooms,
		People:      svc.People,
		Assignments: svc.Assignments,
		Transports:  svc.Transports,
		Settings:    svc.Settings,
		Export:      svc.Export,
	}, logger)
	r.Mount("/", api.Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openStore(ctx context.Context, cfg config.Config, opts ...store.Option) (*store.Store, error) {
	if cfg.DBDriver == config.DriverPostgres {
		return store.OpenPostgres(ctx, cfg.DatabaseURL, opts...)
	}
	return store.OpenSQLite(ctx, cfg.DBPath, opts...)
}
