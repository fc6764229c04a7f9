package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is returned for any non-2xx response from the backend.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// AsStatusError unwraps err to a *StatusError when one is present.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

// newStatusError picks the message the backend meant to show: the "error" field
// of a JSON object, otherwise the compact JSON body, otherwise the raw text, and
// the HTTP status text when the body is empty.
func newStatusError(status int, body []byte) *StatusError {
	return &StatusError{Status: status, Message: errorMessage(status, body)}
}

func errorMessage(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return http.StatusText(status)
	}
	if !json.Valid(trimmed) {
		return strings.TrimSpace(string(trimmed))
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Error) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Error, &text); err == nil {
			if text != "" {
				return text
			}
		} else if !isFalsyJSON(envelope.Error) {
			return compactJSON(envelope.Error)
		}
	}
	return compactJSON(trimmed)
}

func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func isFalsyJSON(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "null", "false", "0":
		return true
	default:
		return false
	}
}
