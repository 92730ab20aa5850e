package advisor

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the provider token is missing, expired or invalid.
	ErrUnauthorized = errors.New("advisor: unauthorized (token expired or invalid)")
	// ErrRateLimited indicates the provider rate limit was hit.
	ErrRateLimited = errors.New("advisor: rate limited")
	// ErrMalformedResponse indicates the provider answered with nothing usable.
	ErrMalformedResponse = errors.New("advisor: malformed response")
)

// ServiceError wraps a failure from a networked explanation provider.
// The Advisor absorbs these and falls back to the template.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("advisor %s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
