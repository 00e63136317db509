package telegram

import (
	"context"
	"encoding/json"
	"fmt"
)

// Deliver sends an outbound message and returns its message id
// (the first one for media groups).
func (c *Client) Deliver(ctx context.Context, req SendRequest) (int, error) {
	result, err := c.Send(ctx, req.Method(), req, DefaultMaxRetries)
	if err != nil {
		return 0, err
	}
	return MessageID(result), nil
}

// SetWebhook registers url as the webhook. secret is echoed back by Telegram
// in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	_, err := c.Send(ctx, MethodSetWebhook, SetWebhookRequest{
		URL:            url,
		SecretToken:    secret,
		AllowedUpdates: []string{"message", "callback_query"},
	}, AdminMaxRetries)
	return err
}

// DeleteWebhook removes the webhook registration.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	_, err := c.Send(ctx, MethodDeleteWebhook, DeleteWebhookRequest{}, AdminMaxRetries)
	return err
}

// GetWebhookInfo returns the current webhook registration.
func (c *Client) GetWebhookInfo(ctx context.Context) (*WebhookInfo, error) {
	result, err := c.Send(ctx, MethodGetWebhookInfo, struct{}{}, AdminMaxRetries)
	if err != nil {
		return nil, err
	}
	var info WebhookInfo
	if err := json.Unmarshal(result, &info); err != nil {
		return nil, fmt.Errorf("telegram: decode webhook info: %w", err)
	}
	return &info, nil
}

// AnswerCallbackQuery acknowledges a callback button press. An empty text
// only stops the client's loading indicator.
func (c *Client) AnswerCallbackQuery(ctx context.Context, id, text string) error {
	_, err := c.Send(ctx, MethodAnswerCallbackQuery, AnswerCallbackQueryRequest{
		CallbackQueryID: id,
		Text:            text,
	}, AdminMaxRetries)
	return err
}
