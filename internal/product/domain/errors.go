package domain

import (
	"context"
	"errors"
	"fmt"
)

// APIError is the uniform wrapper for remote catalog failures: non-2xx
// responses keep their HTTP status, connectivity errors carry status 0,
// malformed JSON maps to 500. Context cancellation is never wrapped into an
// APIError so callers can distinguish a superseded fetch from a real failure.
type APIError struct {
	Status  int
	Message string
	URL     string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("catalog request failed: %s (%s)", e.Message, e.URL)
	}
	return fmt.Sprintf("catalog returned %d: %s (%s)", e.Status, e.Message, e.URL)
}

// IsCancelled reports whether the error is a superseded or aborted fetch.
// Such results must be discarded silently, never rendered as failures.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
