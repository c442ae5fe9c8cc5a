package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"intentos/internal/backend"
	"intentos/internal/cache"
	"intentos/internal/cli"
	"intentos/internal/config"
	"intentos/internal/engine"
	apphttp "intentos/internal/http"
	applog "intentos/internal/log"
	"intentos/internal/population"
	"intentos/internal/registry"
	"intentos/internal/session"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentApp)

	ctx, stop := cli.SignalContext()
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	be, err := backend.NewFactory().Create(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.Close(); err != nil {
			logger.Warn("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	src := population.NewSource(cfg.ToolCacheSize, cfg.ToolCacheTTL)
	caches := cache.NewManager()
	for _, c := range src.Caches() {
		caches.Register(c)
	}

	reg, err := registry.New(src)
	if err != nil {
		return err
	}

	var decider engine.Decider
	client, err := engine.NewClient(engine.Config{
		URL:     cfg.EngineURL,
		APIKey:  cfg.EngineAPIKey,
		Timeout: cfg.EngineTimeout,
	}, reg.Catalog())
	switch {
	case err == nil:
		decider = client
	case errors.Is(err, engine.ErrNotConfigured):
		logger.Warn("Decision engine disabled - no ENGINE_URL provided")
	default:
		return err
	}

	sessions := session.NewManager(be.Store, be.Publisher, session.Config{
		TTL:           cfg.SessionTTL,
		SweepInterval: cfg.SessionSweepInterval,
	})

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Sessions:           sessions,
		Registry:           reg,
		Decider:            decider,
		Ready:              be.Ready,
		CacheStats:         src.CacheStats,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting intentos server",
			"port", cfg.Port,
			"data_backend", cfg.DataBackend,
			"events_backend", cfg.EventsBackend,
			"engine", decider != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return sessions.Run(gctx) })
	g.Go(func() error { return caches.Run(gctx, time.Minute) })

	return g.Wait()
}
