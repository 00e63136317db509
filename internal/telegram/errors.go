package telegram

import "fmt"

// APIError is a Bot API response with ok=false and an HTTP 200 status.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s: %d %s", e.Method, e.Code, e.Description)
}

// SendFailedError reports a non-2xx, non-429 response after all attempts.
// Description carries the remote error text.
type SendFailedError struct {
	Method      string
	Attempts    int
	StatusCode  int
	Description string
}

func (e *SendFailedError) Error() string {
	return fmt.Sprintf("telegram: %s failed after %d attempt(s): HTTP %d: %s",
		e.Method, e.Attempts, e.StatusCode, e.Description)
}

// TransportError reports a network failure that outlived all attempts.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("telegram: %s request failed: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
