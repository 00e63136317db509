package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/flemzord/tgrelay/internal/metrics"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(g.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   g.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public.
	r.Get("/", g.handleInfo())
	r.Get("/health", g.handleHealth())
	if g.cfg.Metrics.On() {
		r.Handle(g.cfg.Metrics.Path, metrics.Handler())
	}

	// Telegram webhook, authenticated by its secret token header.
	if g.cfg.Bot.WebhookURL != "" && g.updates != nil {
		r.Post(g.cfg.Bot.WebhookPath, g.handleWebhook())
	}

	// Admin API. Not mounted if no credentials are configured.
	if g.cfg.Server.Admin.Enabled() {
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth(g.cfg.Server.Admin))
			r.Get("/status", g.handleStatus())
			r.Get("/endpoints", g.handleListEndpoints())
			if g.webhooks != nil {
				r.Get("/webhook", g.handleGetWebhook())
				r.Post("/webhook", g.handleSetWebhook())
				r.Delete("/webhook", g.handleDeleteWebhook())
			}
		})
	}

	// Notification endpoints.
	r.Group(func(r chi.Router) {
		r.Use(apiKeyAuth(g.cfg.Server.APIKey))
		for _, ep := range g.cfg.Endpoints {
			r.Post(ep.Path, g.handleEndpoint(ep))
			g.logger.Debug("endpoint registered", "path", ep.Path)
		}
	})

	return otelhttp.NewHandler(r, "tgrelay.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// requestLogger logs one line per request at debug level, or warn for 5xx.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			level := slog.LevelDebug
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
