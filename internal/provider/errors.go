package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind tags a fetch failure so the cascade resolver can decide between
// retrying the same adapter and moving on to the next one.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindRateLimited  ErrorKind = "rate_limited"
	KindTimeout      ErrorKind = "timeout"
	KindMalformed    ErrorKind = "malformed"
	KindUnreachable  ErrorKind = "unreachable"
)

// FetchError is the only error type that crosses the adapter boundary.
type FetchError struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether the same adapter is worth retrying after backoff.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindTimeout, KindUnreachable:
		return true
	default:
		return false
	}
}

func newFetchError(provider string, kind ErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Provider: provider, Err: err}
}

// classifyStatus maps an HTTP status to an error kind. Any unexpected status
// counts as a malformed exchange with the provider.
func classifyStatus(provider string, status int) *FetchError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newFetchError(provider, KindUnauthorized, fmt.Errorf("status %d", status))
	case status == http.StatusNotFound:
		return newFetchError(provider, KindNotFound, fmt.Errorf("status %d", status))
	case status == http.StatusTooManyRequests:
		return newFetchError(provider, KindRateLimited, fmt.Errorf("status %d", status))
	case status >= 500:
		return newFetchError(provider, KindUnreachable, fmt.Errorf("status %d", status))
	default:
		return newFetchError(provider, KindMalformed, fmt.Errorf("unexpected status %d", status))
	}
}

// classifyTransport maps a transport-level error to Timeout or Unreachable.
func classifyTransport(provider string, err error) *FetchError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newFetchError(provider, KindTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newFetchError(provider, KindTimeout, err)
	}
	return newFetchError(provider, KindUnreachable, err)
}

// AsFetchError unwraps err into a *FetchError, synthesizing an Unreachable
// one when an adapter leaked a plain error.
func AsFetchError(provider string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return newFetchError(provider, KindUnreachable, err)
}
