package llm

import (
	"fmt"
	"time"
)

// MissingCredentialError reports a provider whose API credential is not configured.
type MissingCredentialError struct {
	Provider string
	EnvVar   string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s: missing credential (set %s)", e.Provider, e.EnvVar)
}

// UnsupportedProviderError reports a request for a provider id the gateway does not know.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider %q", e.Provider)
}

// ProviderError is an upstream failure: a non-success status, a malformed payload
// or a transport error.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError with no underlying cause.
func NewProviderError(provider string, status int, message string) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: status, Message: message}
}

// TimeoutError reports a provider call that exceeded the per-call timeout. It unwraps
// to a *ProviderError so fallback treats it like any other upstream failure.
type TimeoutError struct {
	Provider string
	After    time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s request timed out after %s", e.Provider, e.After)
}

func (e *TimeoutError) Unwrap() error {
	return &ProviderError{Provider: e.Provider, Message: e.Error(), Err: e.Err}
}
