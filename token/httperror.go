package token

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HTTPClientError reports a non-2xx response from the token endpoint
type HTTPClientError struct {
	code    int
	message string
	raw     map[string]any
}

func (e *HTTPClientError) Error() string {
	return fmt.Sprintf("status: %d message: %s", e.code, e.message)
}

// StatusCode is the http status returned by the provider
func (e *HTTPClientError) StatusCode() int {
	return e.code
}

// Message is the best available human readable reason for the failure
func (e *HTTPClientError) Message() string {
	return e.message
}

// newHTTPClientError extracts a message from an error response body.
// A json body yields error_description, then error, then "HTTP <status>".
// A body that is not a json object is itself the message.
func newHTTPClientError(status int, body []byte) *HTTPClientError {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		text := string(body)
		msg := text
		if strings.TrimSpace(text) == "" {
			msg = fmt.Sprintf("HTTP %d", status)
		}
		return &HTTPClientError{
			code:    status,
			message: msg,
			raw:     map[string]any{"body": text},
		}
	}

	msg := fmt.Sprintf("HTTP %d", status)
	if s, ok := stringField(payload, "error_description"); ok {
		msg = s
	} else if s, ok := stringField(payload, "error"); ok {
		msg = s
	}
	return &HTTPClientError{code: status, message: msg, raw: payload}
}
