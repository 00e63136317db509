// Package telegram is the Bot API transport used by the relay.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/flemzord/tgrelay/internal/metrics"
)

const (
	// DefaultMaxRetries is the attempt budget for message sends.
	DefaultMaxRetries = 3
	// AdminMaxRetries is the attempt budget for webhook management and callback answers.
	AdminMaxRetries = 1

	defaultTimeout    = 60 * time.Second
	defaultRetryAfter = time.Second
	maxResponseBytes  = 10 << 20
	tracerName        = "github.com/flemzord/tgrelay/internal/telegram"
)

// Client posts JSON requests to the Bot API with retries.
type Client struct {
	token    string
	baseURL  string
	http     *http.Client
	testMode bool
	sleeper  Sleeper
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTestMode makes every call return a canned success without network access.
func WithTestMode(on bool) Option {
	return func(c *Client) { c.testMode = on }
}

// WithSleeper replaces the wait used between attempts.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleeper = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Bot API client for token against baseURL
// (e.g. https://api.telegram.org).
func NewClient(token, baseURL string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		sleeper: timerSleeper{},
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TestMode reports whether the client short-circuits calls.
func (c *Client) TestMode() bool { return c.testMode }

// Send posts payload to method and returns the raw result.
//
// A 200 returns the decoded result. A 429 waits Retry-After seconds (1 if
// absent) and tries again without consuming an attempt. Any other status or
// a network error waits 2^attempt seconds while attempts remain, then fails
// with SendFailedError or TransportError.
func (c *Client) Send(ctx context.Context, method string, payload any, maxRetries int) (json.RawMessage, error) {
	if c.testMode {
		c.logger.Info("test mode: skipping Bot API call", "method", method)
		return cannedResult(method), nil
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("telegram: marshal %s request: %w", method, err)
	}

	ctx, span := c.tracer.Start(ctx, "telegram."+method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("telegram.method", method))

	result, err := c.send(ctx, method, data, maxRetries, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (c *Client) send(ctx context.Context, method string, data []byte, maxRetries int, span trace.Span) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)

	attempt := 0
	for {
		span.SetAttributes(attribute.Int("telegram.attempt", attempt+1))
		start := time.Now()
		status, body, header, err := c.post(ctx, endpoint, data)
		metrics.ObserveAPICall(method, status, time.Since(start))

		if err != nil {
			if ctx.Err() != nil {
				return nil, &TransportError{Method: method, Err: ctx.Err()}
			}
			if attempt < maxRetries-1 {
				wait := backoff(attempt)
				c.logger.Warn("Bot API request failed, retrying",
					"method", method, "attempt", attempt+1, "wait", wait, "error", err)
				metrics.IncRetry(method, metrics.RetryNetwork)
				if serr := c.sleeper.Sleep(ctx, wait); serr != nil {
					return nil, &TransportError{Method: method, Err: serr}
				}
				attempt++
				continue
			}
			return nil, &TransportError{Method: method, Err: err}
		}

		switch status {
		case http.StatusOK:
			var resp APIResponse[json.RawMessage]
			if err := json.Unmarshal(body, &resp); err != nil {
				return nil, fmt.Errorf("telegram: decode %s response: %w", method, err)
			}
			if !resp.OK {
				return nil, &APIError{Method: method, Code: resp.ErrorCode, Description: resp.Description}
			}
			return resp.Result, nil

		case http.StatusTooManyRequests:
			wait := retryAfter(header, body)
			c.logger.Warn("Bot API rate limited", "method", method, "retry_after", wait)
			metrics.IncRetry(method, metrics.RetryRateLimited)
			if serr := c.sleeper.Sleep(ctx, wait); serr != nil {
				return nil, &TransportError{Method: method, Err: serr}
			}
			continue

		default:
			desc := describe(body)
			if attempt < maxRetries-1 {
				wait := backoff(attempt)
				c.logger.Warn("Bot API error, retrying",
					"method", method, "status", status, "description", desc, "attempt", attempt+1, "wait", wait)
				metrics.IncRetry(method, metrics.RetryHTTPError)
				if serr := c.sleeper.Sleep(ctx, wait); serr != nil {
					return nil, &TransportError{Method: method, Err: serr}
				}
				attempt++
				continue
			}
			c.logger.Error("Bot API error", "method", method, "status", status, "description", desc)
			return nil, &SendFailedError{
				Method:      method,
				Attempts:    maxRetries,
				StatusCode:  status,
				Description: desc,
			}
		}
	}
}

func (c *Client) post(ctx context.Context, endpoint string, data []byte) (int, []byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// The URL carries the token; keep only the cause.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return 0, nil, nil, uerr.Err
		}
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, resp.Header, nil
}

// backoff returns 2^attempt seconds.
func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// retryAfter reads the Retry-After header, then the body's
// parameters.retry_after, and defaults to one second.
func retryAfter(header http.Header, body []byte) time.Duration {
	if v := header.Get("Retry-After"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	var resp APIResponse[json.RawMessage]
	if err := json.Unmarshal(body, &resp); err == nil && resp.Parameters != nil && resp.Parameters.RetryAfter > 0 {
		return time.Duration(resp.Parameters.RetryAfter) * time.Second
	}
	return defaultRetryAfter
}

func describe(body []byte) string {
	var resp APIResponse[json.RawMessage]
	if err := json.Unmarshal(body, &resp); err == nil && resp.Description != "" {
		return resp.Description
	}
	return "Unknown error"
}

func cannedResult(method string) json.RawMessage {
	switch method {
	case MethodSendMediaGroup:
		return json.RawMessage(`[{"message_id":0}]`)
	case MethodSetWebhook, MethodDeleteWebhook, MethodAnswerCallbackQuery:
		return json.RawMessage(`true`)
	case MethodGetWebhookInfo:
		return json.RawMessage(`{"url":"","has_custom_certificate":false,"pending_update_count":0}`)
	default:
		return json.RawMessage(`{"message_id":0}`)
	}
}
