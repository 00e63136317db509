package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// StatusResponse is the JSON response for GET /admin/status.
type StatusResponse struct {
	Version  string        `json:"version"`
	Uptime   int64         `json:"uptime_seconds"`
	TestMode bool          `json:"test_mode"`
	Stats    StatsSnapshot `json:"stats"`
}

// endpointJSON is a serializable endpoint summary.
type endpointJSON struct {
	Path      string   `json:"path"`
	ChatIDs   []string `json:"chat_ids"`
	Formatter string   `json:"formatter,omitempty"`
	Template  string   `json:"template,omitempty"`
	ParseMode string   `json:"parse_mode,omitempty"`
	Markup    string   `json:"markup,omitempty"`
	Invoice   bool     `json:"invoice"`
}

// setWebhookRequest is the optional body of POST /admin/webhook.
type setWebhookRequest struct {
	URL    string `json:"url"`
	Secret string `json:"secret"`
}

// handleStatus returns an http.HandlerFunc for GET /admin/status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{
			Version:  g.version,
			Uptime:   int64(time.Since(g.startedAt).Seconds()),
			TestMode: g.cfg.Bot.TestMode,
			Stats:    g.stats.Snapshot(),
		})
	}
}

// handleListEndpoints returns the configured endpoints as JSON.
func (g *Gateway) handleListEndpoints() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		out := make([]endpointJSON, 0, len(g.cfg.Endpoints))
		for _, ep := range g.cfg.Endpoints {
			item := endpointJSON{
				Path:      ep.Path,
				ChatIDs:   ep.StaticChatIDs(),
				Formatter: ep.Formatter,
				Template:  ep.Template,
				ParseMode: ep.ParseMode,
				Invoice:   ep.Invoice != nil,
			}
			if item.ChatIDs == nil {
				item.ChatIDs = []string{}
			}
			switch {
			case len(ep.Buttons) > 0:
				item.Markup = "inline_keyboard"
			case ep.ReplyKeyboard != nil:
				item.Markup = "reply_keyboard"
			case ep.ReplyKeyboardRemove != nil:
				item.Markup = "reply_keyboard_remove"
			case ep.ForceReply != nil:
				item.Markup = "force_reply"
			}
			out = append(out, item)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// handleGetWebhook returns Telegram's view of the webhook registration.
func (g *Gateway) handleGetWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := g.webhooks.GetWebhookInfo(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, "telegram_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// handleSetWebhook registers the webhook. The body may override the
// configured URL and secret.
func (g *Gateway) handleSetWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := setWebhookRequest{URL: g.cfg.Bot.WebhookURL, Secret: g.cfg.Bot.WebhookSecret}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid_payload", "request body must be a JSON object")
			return
		}
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "no_webhook_url", "no webhook url in config or request")
			return
		}

		if err := g.webhooks.SetWebhook(r.Context(), req.URL, req.Secret); err != nil {
			writeError(w, http.StatusBadGateway, "telegram_error", err.Error())
			return
		}
		g.logger.Info("webhook registered", "url", req.URL)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "url": req.URL})
	}
}

// handleDeleteWebhook removes the webhook registration.
func (g *Gateway) handleDeleteWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := g.webhooks.DeleteWebhook(r.Context()); err != nil {
			writeError(w, http.StatusBadGateway, "telegram_error", err.Error())
			return
		}
		g.logger.Info("webhook deleted")
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
