package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/formatter"
	"github.com/flemzord/tgrelay/internal/gateway"
	"github.com/flemzord/tgrelay/internal/relay"
	"github.com/flemzord/tgrelay/internal/render"
	"github.com/flemzord/tgrelay/internal/telegram"
	"github.com/flemzord/tgrelay/internal/updates"
)

// Application holds the wired components of a running relay.
type Application struct {
	Config  *config.Config
	Client  *telegram.Client
	Gateway *gateway.Gateway
	logger  *slog.Logger
}

// NewClient creates the Bot API client described by cfg.
func NewClient(cfg *config.Config, logger *slog.Logger) *telegram.Client {
	return telegram.NewClient(cfg.Bot.Token, cfg.Bot.APIURL,
		telegram.WithTimeout(cfg.Bot.Timeout),
		telegram.WithTestMode(cfg.Bot.TestMode),
		telegram.WithLogger(logger),
	)
}

// Wire builds every component from a validated config.
func Wire(cfg *config.Config, version string, logger *slog.Logger) (*Application, error) {
	renderer, err := render.New(0)
	if err != nil {
		return nil, err
	}
	formatters := formatter.Default()
	client := NewClient(cfg, logger)

	dispatcher := relay.New(relay.Deps{
		Templates:  cfg.Templates,
		Formatters: formatters,
		Renderer:   renderer,
		Sender:     client,
		Logger:     logger,
	})

	handler := updates.New(updates.Deps{
		Commands:  cfg.Commands,
		Callbacks: cfg.Callbacks,
		Secret:    cfg.Bot.WebhookSecret,
		Renderer:  renderer,
		Bot:       client,
		Logger:    logger,
	})

	gw := gateway.New(gateway.Options{
		Config:     cfg,
		Version:    version,
		Dispatcher: dispatcher,
		Updates:    handler,
		Webhooks:   client,
		Formatters: formatters.Names(),
		Logger:     logger,
	})

	return &Application{Config: cfg, Client: client, Gateway: gw, logger: logger}, nil
}

// Start registers the webhook when one is configured, then starts the gateway.
// A failed registration is logged; the relay still serves its endpoints.
func (a *Application) Start(ctx context.Context) error {
	if url := a.Config.Bot.WebhookURL; url != "" {
		if err := a.Client.SetWebhook(ctx, url, a.Config.Bot.WebhookSecret); err != nil {
			a.logger.Error("webhook registration failed", "url", url, "error", err)
		} else {
			a.logger.Info("webhook registered", "url", url)
		}
	}
	if err := a.Gateway.Start(ctx); err != nil {
		return fmt.Errorf("starting gateway: %w", err)
	}
	return nil
}

// Stop shuts the gateway down.
func (a *Application) Stop(ctx context.Context) error {
	return a.Gateway.Stop(ctx)
}
