package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// FailureKind is the display-safe failure taxonomy. Raw transport and
// decoding errors never cross the client boundary; screens only ever see
// one of these categories plus a printable message.
type FailureKind string

const (
	FailureConnectivity FailureKind = "connectivity"
	FailureServer       FailureKind = "server"
	FailureNotFound     FailureKind = "not_found"
	FailureUnexpected   FailureKind = "unexpected"
)

type APIError struct {
	Kind       FailureKind
	StatusCode int
	Message    string // server-provided, when the response carried one
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return string(e.Kind)
}

// Display returns the user-facing string for this failure.
func (e *APIError) Display() string {
	switch e.Kind {
	case FailureConnectivity:
		return "Check your internet connection and try again."
	case FailureNotFound:
		return "This item is no longer available."
	case FailureServer:
		if e.Message != "" {
			return e.Message
		}
		return "The server rejected the request. Please try again."
	}
	return "Something unexpected went wrong. Please try again."
}

// Classify folds an arbitrary error into the taxonomy. APIErrors pass
// through untouched; transport-level errors become connectivity
// failures; everything else is unexpected.
func Classify(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.As(err, &urlErr), errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded):
		return &APIError{Kind: FailureConnectivity}
	}
	return &APIError{Kind: FailureUnexpected}
}

// Display is shorthand for Classify(err).Display().
func Display(err error) string { return Classify(err).Display() }
