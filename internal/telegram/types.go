package telegram

import (
	"bytes"
	"encoding/json"
)

// APIResponse is the generic wrapper returned by the Telegram Bot API.
type APIResponse[T any] struct {
	OK          bool                `json:"ok"`
	Result      T                   `json:"result"`
	Description string              `json:"description,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
}

// ResponseParameters contains information about why a request was unsuccessful.
type ResponseParameters struct {
	RetryAfter int `json:"retry_after,omitempty"`
}

// Update is an incoming webhook update. Only the fields the relay handles are decoded.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Message is a Telegram message.
type Message struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Chat is a Telegram chat.
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

// User is a Telegram user or bot.
type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Map returns the user as a template context value keyed by API field names.
func (u *User) Map() map[string]any {
	if u == nil {
		return map[string]any{}
	}
	return map[string]any{
		"id":            u.ID,
		"is_bot":        u.IsBot,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"username":      u.Username,
		"language_code": u.LanguageCode,
	}
}

// CallbackQuery is a press on an inline keyboard callback button.
// Message is kept raw so it can be forwarded unchanged.
type CallbackQuery struct {
	ID      string          `json:"id"`
	From    User            `json:"from"`
	Message json.RawMessage `json:"message,omitempty"`
	Data    string          `json:"data,omitempty"`
}

// WebhookInfo describes the current webhook registration.
type WebhookInfo struct {
	URL                  string `json:"url"`
	HasCustomCertificate bool   `json:"has_custom_certificate"`
	PendingUpdateCount   int    `json:"pending_update_count"`
	LastErrorDate        int64  `json:"last_error_date,omitempty"`
	LastErrorMessage     string `json:"last_error_message,omitempty"`
	MaxConnections       int    `json:"max_connections,omitempty"`
}

// MessageID extracts the message id from a send result, which is a message
// object or, for media groups, an array of messages. It returns 0 when absent.
func MessageID(result json.RawMessage) int {
	trimmed := bytes.TrimSpace(result)
	if len(trimmed) == 0 {
		return 0
	}
	if trimmed[0] == '[' {
		var msgs []Message
		if err := json.Unmarshal(trimmed, &msgs); err != nil || len(msgs) == 0 {
			return 0
		}
		return msgs[0].MessageID
	}
	var msg Message
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return 0
	}
	return msg.MessageID
}
