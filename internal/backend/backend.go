// Package backend assembles the ledger store and the event publisher
// selected by configuration.
package backend

import (
	"context"
	"errors"
	"fmt"

	"intentos/internal/amqp"
	"intentos/internal/config"
	"intentos/internal/events"
	"intentos/internal/kafka"
	"intentos/internal/ledger"
	"intentos/internal/ledger/memory"
	applog "intentos/internal/log"
	"intentos/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Backend holds the store and publisher a server runs on.
type Backend struct {
	Store     ledger.Store
	Publisher events.Publisher
	// Ready reports whether the store can serve requests.
	Ready   func(context.Context) error
	cleanup []CleanupFunc
}

// Close releases every resource in reverse creation order.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.cleanup) - 1; i >= 0; i-- {
		if err := b.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Factory creates backends based on configuration
type Factory struct {
	logger *applog.Logger

	// dialAMQP is replaced in tests.
	dialAMQP func(url, exchange, queue string) (*amqp.Client, error)
}

// NewFactory creates a new backend factory
func NewFactory() *Factory {
	return &Factory{
		logger:   applog.WithComponent(applog.ComponentBackend),
		dialAMQP: amqp.NewClient,
	}
}

// Create builds the backend described by cfg. On error every resource
// already created is released.
func (f *Factory) Create(ctx context.Context, cfg *config.Config) (*Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app config is nil")
	}

	b := &Backend{Ready: func(context.Context) error { return nil }}
	if err := f.createStore(ctx, cfg, b); err != nil {
		_ = b.Close()
		return nil, err
	}
	if err := f.createPublisher(cfg, b); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (f *Factory) createStore(ctx context.Context, cfg *config.Config, b *Backend) error {
	switch cfg.DataBackend {
	case config.DataBackendMemory:
		b.Store = memory.New()
		f.logger.Info("Initialized memory ledger store")
	case config.DataBackendSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		b.cleanup = append(b.cleanup, repo.Close)

		// Sessions never survive a restart, so neither do their rows.
		purged, err := repo.PurgeAll(ctx)
		if err != nil {
			return fmt.Errorf("purge stale expenses: %w", err)
		}
		b.Store = repo
		b.Ready = repo.Ping
		f.logger.Info("Initialized SQLite ledger store", "db_path", cfg.SQLiteDBPath, "purged", purged)
	default:
		return fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
	return nil
}

func (f *Factory) createPublisher(cfg *config.Config, b *Backend) error {
	switch cfg.EventsBackend {
	case config.EventsBackendNone, "":
		b.Publisher = events.Nop{}
	case config.EventsBackendAMQP:
		client, err := f.dialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Events are best effort: keep serving without them.
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
			b.Publisher = events.Nop{}
			return nil
		}
		b.Publisher = client
		b.cleanup = append(b.cleanup, client.Close)
		f.logger.Info("Initialized AMQP publisher", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	case config.EventsBackendKafka:
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		b.Publisher = p
		b.cleanup = append(b.cleanup, p.Close)
		f.logger.Info("Initialized Kafka publisher", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	default:
		return fmt.Errorf("unsupported events backend: %s", cfg.EventsBackend)
	}
	return nil
}
