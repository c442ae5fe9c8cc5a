// Package cli provides common initialization utilities for the intentos
// commands and the HTTP client used by intentosctl.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"intentos/internal/config"
	applog "intentos/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Bootstrap loads .env, reads the configuration, installs the default
// logger at the configured level and validates. It exits the process when
// the configuration is invalid.
func Bootstrap(component string) (*config.Config, *applog.Logger) {
	LoadEnvFile()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel).WithComponent(component)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
