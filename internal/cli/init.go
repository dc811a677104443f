// Package cli holds the startup steps shared by the fintrack binaries.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// LoadEnvFile loads .env when present. A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from config and installs it as
// the slog default.
func SetupLogger(cfg *config.Config, component string, out io.Writer) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: component,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and exits on validation failure.
func LoadAndValidateConfig(component string) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component, os.Stdout)
	if err := cfg.Validate(); err != nil {
		Fatal(logger, "Configuration validation failed", err, log.ErrorTypeConfiguration)
	}
	return cfg, logger
}

// OpenStore connects to DATABASE_URL and exits on failure.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		Fatal(logger, "Failed to open database", err, log.ErrorTypeDatabase)
	}
	return store
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func Fatal(logger *log.Logger, msg string, err error, errorType string) {
	logger.Error(msg, log.FieldError, err.Error(), log.FieldErrorType, errorType)
	os.Exit(1)
}
