// Package app provides the entry point shared by the tgrelay commands.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/logging"
	"github.com/flemzord/tgrelay/internal/metrics"
	"github.com/flemzord/tgrelay/internal/tracing"
)

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, config.ResolvePath is called automatically.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string

	// LogLevel overrides logging.level from the config when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to stderr.
	LogOutput io.Writer
}

// LoadConfig resolves, loads and validates the configuration.
func LoadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		resolved, err := config.ResolvePath()
		if err != nil {
			return nil, "", err
		}
		path = resolved
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// NewLogger builds the redacting process logger for cfg.
func NewLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	return logging.New(w, cfg.Logging,
		cfg.Bot.Token,
		cfg.Server.APIKey,
		cfg.Bot.WebhookSecret,
		cfg.Server.Admin.BearerToken,
		cfg.Server.Admin.BasicPass,
	)
}

// Run loads configuration, starts the relay, and blocks until ctx is done
// or a shutdown signal is received.
func Run(ctx context.Context, params RunParams) error {
	cfg, cfgPath, err := LoadConfig(params.ConfigPath)
	if err != nil {
		return err
	}
	if params.LogLevel != "" {
		cfg.Logging.Level = params.LogLevel
	}

	logger, err := NewLogger(cfg, params.LogOutput)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	for _, w := range config.Warnings(cfg) {
		logger.Warn("config warning", "detail", w)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, params.Version)
	if err != nil {
		return err
	}
	if cfg.Metrics.On() {
		metrics.MustRegister()
	}

	application, err := Wire(cfg, params.Version, logger)
	if err != nil {
		return err
	}

	logger.Info("starting tgrelay",
		"version", params.Version,
		"commit", params.Commit,
		"config", cfgPath,
		"endpoints", len(cfg.Endpoints),
		"test_mode", cfg.Bot.TestMode,
	)
	if err := application.Start(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// The parent context is done; shutdown gets its own budget.
	stopCtx := context.WithoutCancel(ctx)
	err = errors.Join(application.Stop(stopCtx), shutdownTracing(stopCtx))
	logger.Info("shutdown complete")
	return err
}
