package client

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------
// Error taxonomy
// --------------------------------------------------------------------

// Kind classifies an API failure.
type Kind int

const (
	// KindTransport covers network-level failures: the request never
	// produced an HTTP response.
	KindTransport Kind = iota
	// KindDecode covers malformed or empty response bodies.
	KindDecode
	// KindMissingField covers well-formed responses that lack the
	// expected top-level key.
	KindMissingField
	// KindRemote covers semantic failures reported by the service,
	// including non-2xx statuses and empty result sets on mutating calls.
	KindRemote
	// KindAuth covers rejected credentials and failed token exchanges.
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindMissingField:
		return "missing_field"
	case KindRemote:
		return "remote"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks. Every *APIError matches the sentinel
// for its Kind.
var (
	ErrTransport         = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response body")
	ErrMissingField      = errors.New("expected field missing from response")
	ErrRemote            = errors.New("request rejected by service")
	ErrAuthFailed        = errors.New("authentication failed")

	// ErrAuthExchangeFailed reports that the service could not obtain a
	// token from the AuthUrl given to CreateOAuthEndpoint.
	ErrAuthExchangeFailed = errors.New("token exchange with auth url failed")
)

// APIError is the failure type returned by every Client operation.
type APIError struct {
	Op     string // operation name, e.g. "AddDevices"
	Kind   Kind
	Status int    // HTTP status code, 0 when no response was received
	Field  string // missing field name, set for KindMissingField only
	Err    error  // underlying cause, may be nil
}

func (e *APIError) Error() string {
	switch {
	case e.Kind == KindMissingField:
		return fmt.Sprintf("%s: response missing %q", e.Op, e.Field)
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: status %d (%s)", e.Op, e.Status, e.Kind)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Is matches the sentinel corresponding to the error's Kind, so callers
// can write errors.Is(err, client.ErrAuthFailed) without unwrapping.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrMalformedResponse:
		return e.Kind == KindDecode
	case ErrMissingField:
		return e.Kind == KindMissingField
	case ErrRemote:
		return e.Kind == KindRemote
	case ErrAuthFailed:
		return e.Kind == KindAuth
	}
	return false
}

// IsRetryable reports whether retrying the call could plausibly succeed:
// transport failures and 5xx responses only.
func IsRetryable(err error) bool {
	var ae *APIError
	if !errors.As(err, &ae) {
		return false
	}
	if ae.Kind == KindTransport {
		return true
	}
	return ae.Kind == KindRemote && ae.Status >= 500
}

// missingField builds the KindMissingField error for op and field.
func missingField(op, field string, status int) *APIError {
	return &APIError{Op: op, Kind: KindMissingField, Status: status, Field: field}
}
