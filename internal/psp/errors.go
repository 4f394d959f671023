package psp

import (
	"encoding/json"
	"fmt"
)

// Error is the single normalized error surfaced for any gateway failure,
// transport or provider-side. Callers never see a raw transport error.
type Error struct {
	Provider   string
	Message    string
	StatusCode int
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error: %s (status=%d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newTransportError(provider string, cause error) *Error {
	return &Error{
		Provider: provider,
		Message:  "request failed",
		cause:    cause,
	}
}

// newAPIError extracts the provider's message from an error body when it has
// the usual {"status":false,"message":"..."} shape, else keeps the fallback.
func newAPIError(provider string, statusCode int, body []byte, fallback string) *Error {
	msg := fallback
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		msg = parsed.Message
	}
	return &Error{
		Provider:   provider,
		Message:    msg,
		StatusCode: statusCode,
	}
}
