package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches a StatusError with status 404.
	ErrNotFound = errors.New("document not found")

	// ErrBodyTooLarge is returned when a response exceeds the maximum body size.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets errors.Is(err, ErrNotFound) match a 404 response.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
