package gateway

import (
	"errors"
	"io"
	"net/http"

	"github.com/flemzord/tgrelay/internal/updates"
)

// WebhookResponse is returned to Telegram for every delivered update.
type WebhookResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// handleWebhook receives Telegram updates. Processing errors are reported
// with 200 and ok=false so Telegram does not redeliver the update.
func (g *Gateway) handleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
		if err != nil {
			writeJSON(w, http.StatusOK, WebhookResponse{Error: "reading body: " + err.Error()})
			return
		}

		err = g.updates.HandleWebhook(r.Context(), body, r.Header)
		switch {
		case errors.Is(err, updates.ErrInvalidSecret):
			g.logger.Warn("webhook rejected", "remote_addr", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "invalid_secret_token", "invalid webhook secret token")
		case err != nil:
			g.logger.Error("webhook error", "error", err)
			g.stats.RecordUpdate()
			writeJSON(w, http.StatusOK, WebhookResponse{Error: err.Error()})
		default:
			g.stats.RecordUpdate()
			writeJSON(w, http.StatusOK, WebhookResponse{OK: true})
		}
	}
}
