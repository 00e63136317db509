// Package relay turns an endpoint request into Telegram messages.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/formatter"
	"github.com/flemzord/tgrelay/internal/keyboard"
	"github.com/flemzord/tgrelay/internal/metrics"
	"github.com/flemzord/tgrelay/internal/outbound"
	"github.com/flemzord/tgrelay/internal/render"
	"github.com/flemzord/tgrelay/internal/telegram"
)

// Sender delivers one request and returns the message id.
type Sender interface {
	Deliver(ctx context.Context, req telegram.SendRequest) (int, error)
}

// Delivery is one successfully sent message.
type Delivery struct {
	ChatID    string `json:"chat_id"`
	MessageID int    `json:"message_id"`
}

// Result is the outcome of a dispatch.
type Result struct {
	ID      string     `json:"-"`
	Status  string     `json:"status"`
	Results []Delivery `json:"results"`
}

// Deps are the collaborators of a Dispatcher.
type Deps struct {
	Templates  map[string]string
	Formatters *formatter.Registry
	Renderer   render.Renderer
	Sender     Sender
	Logger     *slog.Logger
}

// Dispatcher sends endpoint payloads to their chats.
type Dispatcher struct {
	templates  map[string]string
	formatters *formatter.Registry
	renderer   render.Renderer
	keyboards  *keyboard.Builder
	invoices   *outbound.InvoiceBuilder
	sender     Sender
	logger     *slog.Logger
	tracer     trace.Tracer
}

// New creates a Dispatcher.
func New(deps Deps) *Dispatcher {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	formatters := deps.Formatters
	if formatters == nil {
		formatters = formatter.Default()
	}
	return &Dispatcher{
		templates:  deps.Templates,
		formatters: formatters,
		renderer:   deps.Renderer,
		keyboards:  keyboard.New(deps.Renderer),
		invoices:   outbound.NewInvoiceBuilder(deps.Renderer),
		sender:     deps.Sender,
		logger:     logger,
		tracer:     otel.Tracer("github.com/flemzord/tgrelay/internal/relay"),
	}
}

// Dispatch renders payload for ep and sends it to every target chat in
// order. The first failure aborts the remaining chats.
func (d *Dispatcher) Dispatch(ctx context.Context, ep config.EndpointConfig, payload map[string]any) (*Result, error) {
	id := uuid.NewString()
	ctx, span := d.tracer.Start(ctx, "relay.dispatch", trace.WithAttributes(
		attribute.String("relay.endpoint", ep.Path),
		attribute.String("relay.dispatch_id", id),
	))
	defer span.End()

	logger := d.logger.With("endpoint", ep.Path, "dispatch_id", id)

	res, err := d.dispatch(ctx, ep, payload, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	res.ID = id
	return res, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, ep config.EndpointConfig, payload map[string]any, logger *slog.Logger) (*Result, error) {
	f := fields{payload: payload, fieldMap: ep.FieldMap}

	chats := d.chatIDs(ep, f)
	if len(chats) == 0 {
		return nil, ErrNoChatID
	}

	parseMode := f.str("parse_mode")
	if parseMode == "" {
		parseMode = ep.ParseMode
	}

	body, err := d.body(ep, payload)
	if err != nil {
		return nil, err
	}

	markup, err := d.keyboards.ForEndpoint(ep, payload)
	if err != nil {
		return nil, err
	}

	build, err := d.planner(ep, f, payload, body, parseMode, markup)
	if err != nil {
		return nil, err
	}

	results := make([]Delivery, 0, len(chats))
	for _, chatID := range chats {
		if ep.Invoice != nil && strings.TrimSpace(body) != "" {
			if _, err := d.sender.Deliver(ctx, outbound.Text(chatID, body, parseMode, nil)); err != nil {
				return nil, &DeliveryError{ChatID: chatID, Delivered: results, Err: err}
			}
		}

		req := build(chatID)
		msgID, err := d.sender.Deliver(ctx, req)
		if err != nil {
			return nil, &DeliveryError{ChatID: chatID, Delivered: results, Err: err}
		}
		metrics.IncMessageSent(req.Method())
		logger.Info("notification sent", "chat_id", chatID, "method", req.Method(), "message_id", msgID)
		results = append(results, Delivery{ChatID: chatID, MessageID: msgID})
	}

	return &Result{Status: "sent", Results: results}, nil
}

// chatIDs resolves targets: payload chat_ids, then payload chat_id, then
// the endpoint's configured chats.
func (d *Dispatcher) chatIDs(ep config.EndpointConfig, f fields) []string {
	if ids := f.strings("chat_ids"); len(ids) > 0 {
		return ids
	}
	if id := f.str("chat_id"); id != "" {
		return []string{id}
	}
	return ep.StaticChatIDs()
}

// body renders the endpoint template, or runs its formatter when none is set.
func (d *Dispatcher) body(ep config.EndpointConfig, payload map[string]any) (string, error) {
	if ep.Template != "" {
		if tmpl, ok := d.templates[ep.Template]; ok {
			return d.renderer.Render(tmpl, payload)
		}
	}

	fmtr, ok := d.formatters.Lookup(ep.Formatter)
	if !ok {
		return "", &FormatterNotFoundError{Name: ep.Formatter}
	}
	out, err := fmtr.Format(payload, formatter.Options{Labels: ep.Labels, PluginConfig: ep.PluginConfig})
	if err != nil {
		return "", fmt.Errorf("relay: formatter %q: %w", ep.Formatter, err)
	}
	return out, nil
}

type buildFunc func(chatID string) telegram.SendRequest

// planner selects the message kind once per request: invoice, location,
// document, video, audio, voice, album, photo, then text.
func (d *Dispatcher) planner(ep config.EndpointConfig, f fields, payload map[string]any, body, parseMode string, markup telegram.ReplyMarkup) (buildFunc, error) {
	common := func(chatID string) outbound.Common {
		return outbound.Common{ChatID: chatID, Caption: body, ParseMode: parseMode, Markup: markup}
	}

	if ep.Invoice != nil {
		invoice, err := d.invoices.Build("", ep.Invoice, payload, markup)
		if err != nil {
			return nil, err
		}
		return func(chatID string) telegram.SendRequest {
			req := invoice
			req.ChatID = chatID
			return req
		}, nil
	}

	if loc := f.get("location"); loc != nil {
		m, ok := loc.(map[string]any)
		if !ok {
			return nil, ErrInvalidLocation
		}
		lat, latOK := toFloat(m["latitude"])
		lon, lonOK := toFloat(m["longitude"])
		if !latOK || !lonOK {
			return nil, ErrInvalidLocation
		}
		opts := outbound.LocationOptions{
			HorizontalAccuracy:   toFloatPtr(m["horizontal_accuracy"]),
			LivePeriod:           toIntPtr(m["live_period"]),
			Heading:              toIntPtr(m["heading"]),
			ProximityAlertRadius: toIntPtr(m["proximity_alert_radius"]),
		}
		return func(chatID string) telegram.SendRequest {
			return outbound.Location(chatID, lat, lon, opts, markup)
		}, nil
	}

	if url := f.str("document_url"); url != "" {
		filename := f.str("filename")
		return func(chatID string) telegram.SendRequest {
			return outbound.Document(common(chatID), url, filename)
		}, nil
	}

	if url := f.str("video_url"); url != "" {
		opts := outbound.VideoOptions{
			Thumbnail:         f.str("thumbnail_url"),
			Width:             f.intPtr("width"),
			Height:            f.intPtr("height"),
			Duration:          f.intPtr("duration"),
			SupportsStreaming: f.boolPtr("supports_streaming"),
		}
		return func(chatID string) telegram.SendRequest {
			return outbound.Video(common(chatID), url, opts)
		}, nil
	}

	if url := f.str("audio_url"); url != "" {
		opts := outbound.AudioOptions{
			Duration:  f.intPtr("duration"),
			Performer: f.str("performer"),
			Title:     f.str("title"),
			Thumbnail: f.str("thumbnail_url"),
		}
		return func(chatID string) telegram.SendRequest {
			return outbound.Audio(common(chatID), url, opts)
		}, nil
	}

	if url := f.str("voice_url"); url != "" {
		duration := f.intPtr("duration")
		return func(chatID string) telegram.SendRequest {
			return outbound.Voice(common(chatID), url, duration)
		}, nil
	}

	if urls := f.strings("image_urls"); len(urls) > 0 {
		return func(chatID string) telegram.SendRequest {
			return outbound.MediaGroup(common(chatID), urls)
		}, nil
	}

	if url := f.str("image_url"); url != "" {
		return func(chatID string) telegram.SendRequest {
			return outbound.Photo(common(chatID), url)
		}, nil
	}

	return func(chatID string) telegram.SendRequest {
		return outbound.Text(chatID, body, parseMode, markup)
	}, nil
}
