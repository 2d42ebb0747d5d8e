package discogs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotConfigured is returned when a call is attempted without an API token.
var ErrNotConfigured = errors.New("discogs: client not configured")

// ErrTransport marks failures where no response was received at all.
var ErrTransport = errors.New("discogs: request failed")

// StatusError is a non-success response from the Discogs API.
type StatusError struct {
	Status     int
	StatusText string
	// Message is the server-supplied message, empty when the error body was
	// not JSON.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("discogs: %d %s: %s", e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("discogs: %d %s", e.Status, e.StatusText)
}

func newStatusError(resp *http.Response) *StatusError {
	statusErr := &StatusError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return statusErr
	}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		statusErr.Message = payload.Message
	}

	return statusErr
}
