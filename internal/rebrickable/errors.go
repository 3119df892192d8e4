package rebrickable

import (
	"errors"
	"fmt"
)

// ErrInvalidToken indicates the configured API token was rejected.
var ErrInvalidToken = errors.New("invalid or missing Rebrickable API token")

// ErrNotFound indicates the requested catalog entity does not exist.
var ErrNotFound = errors.New("catalog entity not found")

// APIError represents any other non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Rebrickable API error: HTTP %d: %s", e.StatusCode, e.Body)
}
