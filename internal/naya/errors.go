package naya

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client failures so callers can pick the right
// recovery: re-login, fix configuration, retry, or surface the message.
type ErrorKind string

const (
	// KindInvalidConfiguration means a bad API base URL or config value.
	// User-correctable, non-fatal.
	KindInvalidConfiguration ErrorKind = "INVALID_CONFIGURATION"

	// KindAuthenticationRequired means the operation needs a session that
	// is absent. Recovered by logging in.
	KindAuthenticationRequired ErrorKind = "AUTHENTICATION_REQUIRED"

	// KindNetworkUnreachable means the transport failed before any HTTP
	// status was received. Retryable by the user.
	KindNetworkUnreachable ErrorKind = "NETWORK_UNREACHABLE"

	// KindSessionExpired means a 401 the refresh flow could not resolve.
	// The session has been cleared; the user must log in again.
	KindSessionExpired ErrorKind = "SESSION_EXPIRED"

	// KindRequestFailed means a non-2xx response carrying a server message.
	KindRequestFailed ErrorKind = "REQUEST_FAILED"

	// KindIncompleteLocation means place resolution was attempted without
	// an id and without a full name/city/country triple.
	KindIncompleteLocation ErrorKind = "INCOMPLETE_LOCATION"

	// KindPlaceResolutionFailed means neither search nor create produced a
	// usable place id.
	KindPlaceResolutionFailed ErrorKind = "PLACE_RESOLUTION_FAILED"
)

// Error is the typed failure returned by the gateway and resolvers.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int // HTTP status when one was received, else 0
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates an Error with the given kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an Error that wraps an underlying cause.
func WrapError(err error, kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: err}
}

// IsKind reports whether err (or anything it wraps) is an Error of the
// given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

// AsError returns the *Error in err's chain, or wraps err as a
// REQUEST_FAILED error so callers always have a kind to switch on.
func AsError(err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Kind: KindRequestFailed, Message: fmt.Sprintf("request failed: %v", err), cause: err}
}
