package relay

import (
	"errors"
	"fmt"
)

// ErrNoChatID is returned when neither the payload nor the endpoint names a chat.
var ErrNoChatID = errors.New("no chat_id specified in config or request")

// ErrInvalidLocation is returned when a location lacks latitude or longitude.
var ErrInvalidLocation = errors.New("location must have latitude and longitude")

// FormatterNotFoundError reports an endpoint naming an unregistered formatter.
type FormatterNotFoundError struct {
	Name string
}

func (e *FormatterNotFoundError) Error() string {
	return fmt.Sprintf("formatter %q not found", e.Name)
}

// DeliveryError wraps a failed send with the chat it targeted. Chats before
// it in the fan-out were already delivered.
type DeliveryError struct {
	ChatID    string
	Delivered []Delivery
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("relay: sending to %s: %v", e.ChatID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
