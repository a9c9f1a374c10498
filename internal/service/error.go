package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the single error shape every client failure normalizes into.
// Server rejections carry the HTTP status; transport failures, timeouts,
// and cancellations carry status 0.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// errorBody is the JSON error envelope some service responses carry.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// newServerError builds an Error from a non-2xx response. The message is
// drawn from the body, falling back to the status text when the body is
// empty.
func newServerError(status int, body []byte) *Error {
	e := &Error{Status: status}

	var envelope errorBody
	if json.Unmarshal(body, &envelope) == nil {
		e.Code = envelope.Code
		if envelope.Error != "" {
			e.Message = envelope.Error
		} else if envelope.Message != "" {
			e.Message = envelope.Message
		}
	}

	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// newTransportError normalizes a failure that never produced a response.
func newTransportError(err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Status: 0, Message: "request timed out"}
	case errors.Is(err, context.Canceled):
		return &Error{Status: 0, Message: "request cancelled"}
	default:
		return &Error{Status: 0, Message: err.Error()}
	}
}
