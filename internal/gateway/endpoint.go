package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/keyboard"
	"github.com/flemzord/tgrelay/internal/metrics"
	"github.com/flemzord/tgrelay/internal/outbound"
	"github.com/flemzord/tgrelay/internal/relay"
)

const maxPayloadBytes = 1 << 20

// DispatchIDHeader echoes the id of the dispatch a response belongs to.
const DispatchIDHeader = "X-Dispatch-ID"

// handleEndpoint serves POST on a configured notification path.
func (g *Gateway) handleEndpoint(ep config.EndpointConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&payload); err != nil || payload == nil {
			writeError(w, http.StatusBadRequest, "invalid_payload", "request body must be a JSON object")
			return
		}

		res, err := g.dispatcher.Dispatch(r.Context(), ep, payload)
		if err != nil {
			status, code := classify(err)
			metrics.IncDispatch(ep.Path, code)
			g.stats.RecordFailure()
			g.logger.Error("dispatch failed", "endpoint", ep.Path, "error", code, "detail", err)
			writeError(w, status, code, message(err))
			return
		}

		metrics.IncDispatch(ep.Path, "sent")
		g.stats.RecordDispatch(len(res.Results))
		w.Header().Set(DispatchIDHeader, res.ID)
		writeJSON(w, http.StatusOK, res)
	}
}

// classify maps a dispatch error to an HTTP status and error code.
func classify(err error) (int, string) {
	var (
		kbErr     *keyboard.ValidationError
		fmtErr    *relay.FormatterNotFoundError
		amountErr *outbound.AmountError
	)
	switch {
	case errors.Is(err, relay.ErrNoChatID):
		return http.StatusBadRequest, "no_chat_id"
	case errors.Is(err, relay.ErrInvalidLocation):
		return http.StatusBadRequest, "invalid_location"
	case errors.As(err, &kbErr):
		return http.StatusBadRequest, "invalid_keyboard"
	case errors.As(err, &fmtErr):
		return http.StatusInternalServerError, "formatter_not_found"
	case errors.As(err, &amountErr):
		return http.StatusInternalServerError, "build_failed"
	default:
		return http.StatusInternalServerError, "send_failed"
	}
}

// message is the client-facing text for err. Fan-out errors report the
// underlying cause; the failing chat is logged.
func message(err error) string {
	var delErr *relay.DeliveryError
	if errors.As(err, &delErr) {
		return delErr.Err.Error()
	}
	return err.Error()
}
