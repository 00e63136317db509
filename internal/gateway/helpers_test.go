package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/relay"
	"github.com/flemzord/tgrelay/internal/telegram"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDispatcher returns a fixed result or error and records payloads.
type fakeDispatcher struct {
	mu       sync.Mutex
	payloads []map[string]any
	res      *relay.Result
	err      error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, _ config.EndpointConfig, payload map[string]any) (*relay.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads = append(d.payloads, payload)
	if d.err != nil {
		return nil, d.err
	}
	if d.res != nil {
		return d.res, nil
	}
	return &relay.Result{ID: "d-1", Status: "sent", Results: []relay.Delivery{}}, nil
}

// fakeWebhooks records webhook management calls.
type fakeWebhooks struct {
	mu      sync.Mutex
	set     []string
	deleted int
	err     error
}

func (f *fakeWebhooks) SetWebhook(_ context.Context, url, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set = append(f.set, url+"|"+secret)
	return f.err
}

func (f *fakeWebhooks) DeleteWebhook(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted++
	return f.err
}

func (f *fakeWebhooks) GetWebhookInfo(context.Context) (*telegram.WebhookInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &telegram.WebhookInfo{URL: "https://relay.example/bot/webhook", PendingUpdateCount: 2}, nil
}

func testConfig(mut func(*config.Config)) *config.Config {
	cfg := &config.Config{
		Bot:       config.BotConfig{Token: "123:abc", TestMode: true},
		Endpoints: []config.EndpointConfig{{Path: "notify", ChatID: "123"}},
	}
	if mut != nil {
		mut(cfg)
	}
	cfg.Defaults()
	return cfg
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
