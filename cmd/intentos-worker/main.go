package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"intentos/internal/amqp"
	"intentos/internal/cli"
	"intentos/internal/config"
	applog "intentos/internal/log"
	"intentos/internal/worker"
)

// reportInterval is how often the worker logs its live session count.
const reportInterval = time.Minute

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentWorker)
	logger.Info("Starting intentos-worker")

	if cfg.EventsBackend != config.EventsBackendAMQP {
		logger.Error("intentos-worker consumes AMQP events; set EVENTS_BACKEND=amqp",
			"events_backend", cfg.EventsBackend)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := cli.SignalContext()
	defer stop()

	activity := worker.NewActivityWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.Consume(gctx, activity.Handle)
	})
	g.Go(func() error {
		ticker := time.NewTicker(reportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logger.Info("Activity report", "live_sessions", activity.Sessions())
			case <-gctx.Done():
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
