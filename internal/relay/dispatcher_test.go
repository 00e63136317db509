package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/formatter"
	"github.com/flemzord/tgrelay/internal/keyboard"
	"github.com/flemzord/tgrelay/internal/outbound"
	"github.com/flemzord/tgrelay/internal/render"
	"github.com/flemzord/tgrelay/internal/telegram"
)

// fakeSender records requests and fails on the chat named in failOn.
type fakeSender struct {
	mu     sync.Mutex
	sent   []telegram.SendRequest
	nextID int
	failOn string
}

func (s *fakeSender) Deliver(_ context.Context, req telegram.SendRequest) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && chatOf(req) == s.failOn {
		return 0, &telegram.SendFailedError{Method: req.Method(), Attempts: 3, StatusCode: 400, Description: "Bad Request: chat not found"}
	}
	s.sent = append(s.sent, req)
	s.nextID++
	return s.nextID, nil
}

func chatOf(req telegram.SendRequest) string {
	data, _ := json.Marshal(req)
	var v struct {
		ChatID string `json:"chat_id"`
	}
	_ = json.Unmarshal(data, &v)
	return v.ChatID
}

func newDispatcher(t *testing.T, sender Sender, templates map[string]string) *Dispatcher {
	t.Helper()
	r, err := render.New(32)
	if err != nil {
		t.Fatal(err)
	}
	return New(Deps{
		Templates:  templates,
		Formatters: formatter.Default(),
		Renderer:   r,
		Sender:     sender,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func endpoint(mut func(*config.EndpointConfig)) config.EndpointConfig {
	ep := config.EndpointConfig{Path: "/notify", ChatID: "123", Formatter: "plain"}
	if mut != nil {
		mut(&ep)
	}
	return ep
}

func TestDispatch_PlainMessage(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	d := newDispatcher(t, sender, nil)

	res, err := d.Dispatch(context.Background(), endpoint(nil), map[string]any{"message": "Hello"})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if res.Status != "sent" || len(res.Results) != 1 || res.Results[0] != (Delivery{ChatID: "123", MessageID: 1}) {
		t.Errorf("result = %+v", res)
	}
	if res.ID == "" {
		t.Error("dispatch id should be set")
	}
	msg, ok := sender.sent[0].(telegram.SendMessageRequest)
	if !ok {
		t.Fatalf("request = %T, want SendMessageRequest", sender.sent[0])
	}
	if msg.Text != "Hello" || msg.ChatID != "123" || msg.ReplyMarkup != nil {
		t.Errorf("message = %+v", msg)
	}
}

func TestDispatch_TemplateIgnoresNonIdentifierKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{"hyphenated keys", map[string]any{"repo": "tgrelay", "event-type": "push", "@timestamp": "2026-01-01"}, "tgrelay pushed"},
		{"empty payload", map[string]any{}, " pushed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sender := &fakeSender{}
			d := newDispatcher(t, sender, map[string]string{"push": "{{ repo }} pushed"})

			ep := endpoint(func(ep *config.EndpointConfig) { ep.Template = "push" })
			if _, err := d.Dispatch(context.Background(), ep, tt.payload); err != nil {
				t.Fatalf("Dispatch() error: %v", err)
			}
			msg, ok := sender.sent[0].(telegram.SendMessageRequest)
			if !ok {
				t.Fatalf("request = %T, want SendMessageRequest", sender.sent[0])
			}
			if msg.Text != tt.want {
				t.Errorf("Text = %q, want %q", msg.Text, tt.want)
			}
		})
	}
}

func TestDispatch_KindPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{"document over video", map[string]any{"document_url": "d", "video_url": "v"}, telegram.MethodSendDocument},
		{"video over audio", map[string]any{"video_url": "v", "audio_url": "a"}, telegram.MethodSendVideo},
		{"audio over voice", map[string]any{"audio_url": "a", "voice_url": "x"}, telegram.MethodSendAudio},
		{"voice over album", map[string]any{"voice_url": "x", "image_urls": []any{"i"}}, telegram.MethodSendVoice},
		{"album over photo", map[string]any{"image_urls": []any{"i1", "i2"}, "image_url": "p"}, telegram.MethodSendMediaGroup},
		{"photo", map[string]any{"image_url": "p"}, telegram.MethodSendPhoto},
		{"empty album falls through", map[string]any{"image_urls": []any{}, "image_url": "p"}, telegram.MethodSendPhoto},
		{"location over document", map[string]any{"location": map[string]any{"latitude": 1.0, "longitude": 2.0}, "document_url": "d"}, telegram.MethodSendLocation},
		{"text", map[string]any{"message": "hi"}, telegram.MethodSendMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sender := &fakeSender{}
			d := newDispatcher(t, sender, nil)
			if _, err := d.Dispatch(context.Background(), endpoint(nil), tt.payload); err != nil {
				t.Fatalf("Dispatch() error: %v", err)
			}
			if got := sender.sent[0].Method(); got != tt.want {
				t.Errorf("method = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDispatch_InvoiceWinsAndPreSendsText(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	d := newDispatcher(t, sender, map[string]string{"order": "Order {{ order_id }}"})

	ep := endpoint(func(ep *config.EndpointConfig) {
		ep.Template = "order"
		ep.Buttons = [][]config.ButtonConfig{{{Text: "Pay {{ total }} XTR", Pay: true}}}
		ep.Invoice = &config.InvoiceConfig{
			Title: "Order {{ order_id }}", Description: "d", Payload: "p", Currency: "XTR",
			Prices: []config.LabeledPriceConfig{{Label: "Total", Amount: config.IntOrTemplate{Template: "{{ total|int }}"}}},
		}
	})
	res, err := d.Dispatch(context.Background(), ep, map[string]any{"order_id": "A1", "total": 50, "image_url": "p"})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d requests, want 2", len(sender.sent))
	}
	pre, ok := sender.sent[0].(telegram.SendMessageRequest)
	if !ok || pre.Text != "Order A1" || pre.ReplyMarkup != nil {
		t.Errorf("pre-send = %+v, want plain text without markup", sender.sent[0])
	}
	inv, ok := sender.sent[1].(telegram.SendInvoiceRequest)
	if !ok {
		t.Fatalf("second request = %T, want SendInvoiceRequest", sender.sent[1])
	}
	if inv.ChatID != "123" || inv.Prices[0].Amount != 50 || inv.ReplyMarkup == nil {
		t.Errorf("invoice = %+v", inv)
	}
	if len(res.Results) != 1 || res.Results[0].MessageID != 2 {
		t.Errorf("results = %+v, want only the invoice", res.Results)
	}
}

func TestDispatch_InvoiceAmountErrorSendsNothing(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	d := newDispatcher(t, sender, nil)

	ep := endpoint(func(ep *config.EndpointConfig) {
		ep.Invoice = &config.InvoiceConfig{
			Title: "t", Currency: "XTR",
			Prices: []config.LabeledPriceConfig{{Label: "x", Amount: config.IntOrTemplate{Template: "{{ total }}"}}},
		}
	})
	_, err := d.Dispatch(context.Background(), ep, map[string]any{"message": "hi", "total": "n/a"})
	var amountErr *outbound.AmountError
	if !errors.As(err, &amountErr) {
		t.Fatalf("error = %v, want *outbound.AmountError", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d requests, want 0", len(sender.sent))
	}
}

func TestDispatch_ChatResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ep      config.EndpointConfig
		payload map[string]any
		want    []string
	}{
		{"payload chat_ids", endpoint(nil), map[string]any{"chat_ids": []any{"a", 42.0}, "chat_id": "x"}, []string{"a", "42"}},
		{"payload chat_id", endpoint(nil), map[string]any{"chat_id": 7.0}, []string{"7"}},
		{"configured", endpoint(func(ep *config.EndpointConfig) { ep.ChatIDs = []string{"456"} }), map[string]any{}, []string{"123", "456"}},
		{"field map", endpoint(func(ep *config.EndpointConfig) { ep.FieldMap = map[string]string{"chat_id": "meta.chat"} }),
			map[string]any{"meta": map[string]any{"chat": "@ops"}}, []string{"@ops"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sender := &fakeSender{}
			d := newDispatcher(t, sender, nil)
			res, err := d.Dispatch(context.Background(), tt.ep, tt.payload)
			if err != nil {
				t.Fatalf("Dispatch() error: %v", err)
			}
			if len(res.Results) != len(tt.want) {
				t.Fatalf("results = %+v, want chats %v", res.Results, tt.want)
			}
			for i, want := range tt.want {
				if res.Results[i].ChatID != want {
					t.Errorf("results[%d].ChatID = %q, want %q", i, res.Results[i].ChatID, want)
				}
			}
		})
	}
}

func TestDispatch_Errors(t *testing.T) {
	t.Parallel()

	noChat := endpoint(func(ep *config.EndpointConfig) { ep.ChatID = "" })
	badFormatter := endpoint(func(ep *config.EndpointConfig) { ep.Formatter = "nope" })
	payButtonLate := endpoint(func(ep *config.EndpointConfig) {
		ep.Buttons = [][]config.ButtonConfig{{{Text: "a", URL: "https://a"}, {Text: "pay", Pay: true}}}
	})

	tests := []struct {
		name    string
		ep      config.EndpointConfig
		payload map[string]any
		check   func(error) bool
	}{
		{"no chat", noChat, map[string]any{"message": "x"}, func(err error) bool { return errors.Is(err, ErrNoChatID) }},
		{"location without longitude", endpoint(nil), map[string]any{"location": map[string]any{"latitude": 1.0}},
			func(err error) bool { return errors.Is(err, ErrInvalidLocation) }},
		{"location not an object", endpoint(nil), map[string]any{"location": "paris"},
			func(err error) bool { return errors.Is(err, ErrInvalidLocation) }},
		{"unknown formatter", badFormatter, map[string]any{"message": "x"}, func(err error) bool {
			var e *FormatterNotFoundError
			return errors.As(err, &e) && e.Name == "nope"
		}},
		{"pay button misplaced", payButtonLate, map[string]any{"message": "x"}, func(err error) bool {
			var e *keyboard.ValidationError
			return errors.As(err, &e)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sender := &fakeSender{}
			d := newDispatcher(t, sender, nil)
			_, err := d.Dispatch(context.Background(), tt.ep, tt.payload)
			if err == nil || !tt.check(err) {
				t.Errorf("error = %v", err)
			}
			if len(sender.sent) != 0 {
				t.Errorf("sent %d requests before failing", len(sender.sent))
			}
		})
	}
}

func TestDispatch_AbortsOnFirstFailure(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{failOn: "b"}
	d := newDispatcher(t, sender, nil)

	ep := endpoint(func(ep *config.EndpointConfig) { ep.ChatID = ""; ep.ChatIDs = []string{"a", "b", "c"} })
	_, err := d.Dispatch(context.Background(), ep, map[string]any{"message": "x"})

	var delErr *DeliveryError
	if !errors.As(err, &delErr) {
		t.Fatalf("error = %v, want *DeliveryError", err)
	}
	if delErr.ChatID != "b" || len(delErr.Delivered) != 1 || delErr.Delivered[0].ChatID != "a" {
		t.Errorf("DeliveryError = %+v", delErr)
	}
	var sendErr *telegram.SendFailedError
	if !errors.As(err, &sendErr) || sendErr.Description != "Bad Request: chat not found" {
		t.Errorf("wrapped error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent %d requests, want 1 (c must not be attempted)", len(sender.sent))
	}
}

func TestDispatch_ParseModeAndEscaping(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	d := newDispatcher(t, sender, map[string]string{"price": "Total: {{ amount }}"})

	ep := endpoint(func(ep *config.EndpointConfig) { ep.Template = "price"; ep.ParseMode = "HTML" })
	if _, err := d.Dispatch(context.Background(), ep, map[string]any{"amount": "123.45", "parse_mode": "MarkdownV2"}); err != nil {
		t.Fatal(err)
	}
	msg := sender.sent[0].(telegram.SendMessageRequest)
	if msg.ParseMode != "MarkdownV2" || msg.Text != `Total: 123\.45` {
		t.Errorf("message = %+v", msg)
	}
}

func TestDispatch_MediaOptionsAndCaption(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	d := newDispatcher(t, sender, nil)

	_, err := d.Dispatch(context.Background(), endpoint(nil), map[string]any{
		"message": "clip", "video_url": "https://v.mp4", "duration": 30.0, "supports_streaming": true,
	})
	if err != nil {
		t.Fatal(err)
	}
	v := sender.sent[0].(telegram.SendVideoRequest)
	if v.Caption != "clip" || v.Duration == nil || *v.Duration != 30 || v.SupportsStreaming == nil || !*v.SupportsStreaming {
		t.Errorf("video = %+v", v)
	}
	if v.Width != nil {
		t.Error("width should be unset")
	}
}
