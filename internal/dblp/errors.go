package dblp

import (
	"errors"
	"fmt"
)

// Common errors returned by the DBLP client.
var (
	// ErrTimeout indicates a remote call exceeded the fixed request budget.
	ErrTimeout = errors.New("DBLP request timed out")

	// ErrRemote indicates a transport failure talking to DBLP.
	ErrRemote = errors.New("DBLP request failed")
)

// APIError represents a non-2xx response from the DBLP API.
type APIError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("DBLP API error (status %d): %s (%s)", e.StatusCode, e.Message, e.URL)
	}
	return fmt.Sprintf("DBLP API error (status %d): %s", e.StatusCode, e.URL)
}

// IsTimeout returns true if the error indicates the request budget was exceeded.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsNotFound returns true if the error is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
