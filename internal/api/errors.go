package api

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when an operation class is invoked on a
// client whose constructor did not enable it (public operation on a
// private-only client or vice versa).
var ErrNotConfigured = errors.New("client is not configured for this operation")

// APIError represents a recognized non-success status code returned by the
// exchange. Transport-level failures are reported as wrapped errors instead,
// so the two kinds are distinguishable with errors.As.
type APIError struct {
	Status Status
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error [%d]: %s", int(e.Status), e.Status)
}
