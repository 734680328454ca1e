package hubspot

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is the uniform shape of every non-2xx HubSpot response.
type RemoteError struct {
	Status        int    `json:"status"`
	Message       string `json:"message"`
	Category      string `json:"category,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

func (e *RemoteError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("hubspot %d %s: %s", e.Status, e.Category, e.Message)
	}
	return fmt.Sprintf("hubspot %d: %s", e.Status, e.Message)
}

// StatusOf returns the remote status carried by err, or 0.
func StatusOf(err error) int {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Status
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func IsRateLimited(err error) bool {
	return StatusOf(err) == http.StatusTooManyRequests
}
