package session

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound means the token has no live registry entry. Fatal to
// the call; never retried internally.
var ErrSessionNotFound = errors.New("session: not found")

// AuthError means an auth flow executed but never reached its success
// indicator.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session: authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("session: authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NavigationError means all load-strategy tiers were exhausted.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("session: navigate %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ActionError means a selector was unresolvable or the action timed out.
// It carries enough context for the caller to log and retry.
type ActionError struct {
	Type     string
	Selector string
	Value    string
	Err      error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("session: action %s on %q: %v", e.Type, e.Selector, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// CaptureError is non-fatal: callers degrade to an empty element list.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("session: capture: %v", e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }
