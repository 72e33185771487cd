package assistants

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrMissingAssistantID is returned when a run is started without an
	// assistant identifier.
	ErrMissingAssistantID = errors.New("assistant id is required")
)

// APIError represents a non-2xx response from the remote service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("assistants API error (%d): %s", e.StatusCode, e.Body)
}
