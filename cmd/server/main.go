package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiendafacil/backend/internal/config"
	"tiendafacil/backend/internal/httpapi"
	"tiendafacil/backend/internal/service"
	"tiendafacil/backend/internal/tablestore"
	"tiendafacil/backend/internal/tablestore/cached"
	"tiendafacil/backend/internal/tablestore/memory"
	"tiendafacil/backend/internal/tablestore/postgres"
	"tiendafacil/backend/internal/tablestore/xlsx"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var store tablestore.Store
	var closers []func() error

	switch {
	case cfg.DatabaseURL != "":
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		closers = append(closers, pg.Close)
		store = pg
		logger.Info().Msg("using postgres table store")
	case cfg.WorkbookPath != "":
		store = xlsx.New(cfg.WorkbookPath)
		logger.Info().Str("path", cfg.WorkbookPath).Msg("using xlsx workbook table store")
	default:
		store = memory.NewSeeded()
		logger.Warn().Msg("no DATABASE_URL or WORKBOOK_PATH set, using seeded in-memory store")
	}

	if cfg.RedisAddr != "" {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		cache := cached.New(store, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, ttl)
		if err := cache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, running without read cache")
		} else {
			closers = append(closers, cache.Close)
			store = cache
			logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", ttl).Msg("redis read cache enabled")
		}
	}

	svc := service.New(store, logger, cfg.Operators)
	api := httpapi.New(svc, logger, cfg.AllowOrigins, cfg.MaxUploadMB)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error().Err(err).Msg("closing resource")
		}
	}
	logger.Info().Msg("stopped")
}
