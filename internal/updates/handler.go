// Package updates answers inbound Telegram webhook updates: bot commands
// and inline keyboard callbacks.
package updates

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/keyboard"
	"github.com/flemzord/tgrelay/internal/metrics"
	"github.com/flemzord/tgrelay/internal/outbound"
	"github.com/flemzord/tgrelay/internal/render"
	"github.com/flemzord/tgrelay/internal/telegram"
)

// SecretHeader carries the webhook secret set with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// ErrInvalidSecret is returned when the secret token header does not match.
var ErrInvalidSecret = errors.New("updates: invalid webhook secret token")

// Bot is the subset of the Telegram client used to reply to updates.
type Bot interface {
	Deliver(ctx context.Context, req telegram.SendRequest) (int, error)
	AnswerCallbackQuery(ctx context.Context, id, text string) error
}

// Deps are the collaborators of a Handler.
type Deps struct {
	Commands   []config.CommandConfig
	Callbacks  []config.CallbackConfig
	Secret     string
	Renderer   render.Renderer
	Bot        Bot
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Handler matches updates against the configured commands and callbacks.
type Handler struct {
	commands  []config.CommandConfig
	callbacks []config.CallbackConfig
	secret    string
	renderer  render.Renderer
	keyboards *keyboard.Builder
	bot       Bot
	http      *http.Client
	logger    *slog.Logger
}

// New creates a Handler.
func New(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hc := deps.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Handler{
		commands:  deps.Commands,
		callbacks: deps.Callbacks,
		secret:    deps.Secret,
		renderer:  deps.Renderer,
		keyboards: keyboard.New(deps.Renderer),
		bot:       deps.Bot,
		http:      hc,
		logger:    logger,
	}
}

// HandleWebhook checks the secret token, decodes body and handles the update.
func (h *Handler) HandleWebhook(ctx context.Context, body []byte, headers http.Header) error {
	if h.secret != "" {
		token := headers.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(h.secret), []byte(token)) != 1 {
			return ErrInvalidSecret
		}
	}

	var update telegram.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("updates: invalid update JSON: %w", err)
	}
	return h.Handle(ctx, &update)
}

// Handle processes one update. Updates that are neither a callback query
// nor a command message are ignored.
func (h *Handler) Handle(ctx context.Context, update *telegram.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return h.handleMessage(ctx, update.Message)
	}
	h.logger.Debug("skipping update", "update_id", update.UpdateID)
	return nil
}

func (h *Handler) handleCallback(ctx context.Context, q *telegram.CallbackQuery) error {
	h.logger.Info("callback query", "data", q.Data, "user_id", q.From.ID)

	for _, cb := range h.callbacks {
		if cb.Data != q.Data {
			continue
		}
		metrics.IncUpdate("callback", true)
		if err := h.bot.AnswerCallbackQuery(ctx, q.ID, cb.Response); err != nil {
			return fmt.Errorf("updates: answering callback: %w", err)
		}
		if cb.URL != "" {
			return h.forward(ctx, cb.URL, q)
		}
		return nil
	}

	metrics.IncUpdate("callback", false)
	if err := h.bot.AnswerCallbackQuery(ctx, q.ID, ""); err != nil {
		return fmt.Errorf("updates: answering callback: %w", err)
	}
	return nil
}

// forward POSTs {callback_data, user, message} to url.
func (h *Handler) forward(ctx context.Context, url string, q *telegram.CallbackQuery) error {
	msg := q.Message
	if len(msg) == 0 {
		msg = json.RawMessage("{}")
	}
	body, err := json.Marshal(map[string]any{
		"callback_data": q.Data,
		"user":          q.From,
		"message":       msg,
	})
	if err != nil {
		return fmt.Errorf("updates: encoding callback forward: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("updates: creating callback forward: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.http.Do(req)
	if err != nil {
		return fmt.Errorf("updates: forwarding callback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		h.logger.Warn("callback forward rejected", "url", url, "status", resp.StatusCode)
	}
	return nil
}

func (h *Handler) handleMessage(ctx context.Context, msg *telegram.Message) error {
	command, ok := parseCommand(msg.Text)
	if !ok {
		return nil
	}
	chatID := strconv.FormatInt(msg.Chat.ID, 10)

	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	h.logger.Info("command", "command", command, "user_id", userID, "chat_id", chatID)

	for _, cmd := range h.commands {
		if cmd.Command != command {
			continue
		}
		metrics.IncUpdate("command", true)
		return h.reply(ctx, cmd, commandContext(msg, chatID, command))
	}
	metrics.IncUpdate("command", false)
	return nil
}

func (h *Handler) reply(ctx context.Context, cmd config.CommandConfig, data map[string]any) error {
	if cmd.Response == "" {
		return nil
	}
	text, err := h.renderer.Render(cmd.Response, data)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	var markup telegram.ReplyMarkup
	if len(cmd.Buttons) > 0 {
		m, err := h.keyboards.Inline(cmd.Buttons, data)
		if err != nil {
			return err
		}
		markup = m
	}

	chatID, _ := data["chat_id"].(string)
	if _, err := h.bot.Deliver(ctx, outbound.Text(chatID, text, cmd.ParseMode, markup)); err != nil {
		return fmt.Errorf("updates: replying to %s: %w", cmd.Command, err)
	}
	return nil
}

// parseCommand returns the leading /command token with any @botname suffix removed.
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	token := strings.Fields(text)[0]
	command, _, _ := strings.Cut(token, "@")
	return command, true
}

func commandContext(msg *telegram.Message, chatID, command string) map[string]any {
	data := map[string]any{
		"user":       msg.From.Map(),
		"chat_id":    chatID,
		"first_name": "",
		"username":   "",
		"command":    command,
	}
	if msg.From != nil {
		data["first_name"] = msg.From.FirstName
		data["username"] = msg.From.Username
	}
	return data
}
