// Package gateway is the HTTP surface of the relay: configured notification
// endpoints, the Telegram webhook, health and the admin API.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/relay"
	"github.com/flemzord/tgrelay/internal/telegram"
)

// Dispatcher sends an endpoint payload to Telegram.
type Dispatcher interface {
	Dispatch(ctx context.Context, ep config.EndpointConfig, payload map[string]any) (*relay.Result, error)
}

// UpdateHandler processes a raw webhook update.
type UpdateHandler interface {
	HandleWebhook(ctx context.Context, body []byte, headers http.Header) error
}

// WebhookManager manages the bot's webhook registration.
type WebhookManager interface {
	SetWebhook(ctx context.Context, url, secret string) error
	DeleteWebhook(ctx context.Context) error
	GetWebhookInfo(ctx context.Context) (*telegram.WebhookInfo, error)
}

// Options configure a Gateway.
type Options struct {
	Config     *config.Config
	Version    string
	Dispatcher Dispatcher
	Updates    UpdateHandler
	Webhooks   WebhookManager
	Formatters []string
	Logger     *slog.Logger
}

// Gateway serves the relay's HTTP routes.
type Gateway struct {
	cfg        *config.Config
	version    string
	dispatcher Dispatcher
	updates    UpdateHandler
	webhooks   WebhookManager
	formatters []string
	logger     *slog.Logger
	stats      *Stats
	server     *http.Server
	startedAt  time.Time
}

// New creates a Gateway. Routes are built by Handler or Start.
func New(opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		cfg:        opts.Config,
		version:    opts.Version,
		dispatcher: opts.Dispatcher,
		updates:    opts.Updates,
		webhooks:   opts.Webhooks,
		formatters: opts.Formatters,
		logger:     logger,
		stats:      &Stats{},
		startedAt:  time.Now(),
	}
}

// Addr is the listen address from the server config.
func (g *Gateway) Addr() string {
	return net.JoinHostPort(g.cfg.Server.Host, strconv.Itoa(g.cfg.Server.Port))
}

// Handler returns the full route tree.
func (g *Gateway) Handler() http.Handler {
	return g.buildRouter()
}

// Start listens on Addr and serves in the background.
func (g *Gateway) Start(ctx context.Context) error {
	g.startedAt = time.Now()
	g.server = &http.Server{
		Addr:         g.Addr(),
		Handler:      g.Handler(),
		ReadTimeout:  g.cfg.Server.ReadTimeout,
		WriteTimeout: g.cfg.Server.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", g.server.Addr)
	if err != nil {
		return fmt.Errorf("gateway: listen failed: %w", err)
	}

	go func() {
		g.logger.Info("gateway listening", "addr", ln.Addr().String(), "endpoints", len(g.cfg.Endpoints))
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down gracefully within the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.cfg.Server.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
