// Package apierr defines the closed set of error kinds the client can see.
// Callers branch on kind, never on message text.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a client-visible failure.
type Kind int

const (
	// KindTransient is a network or server failure worth retrying.
	KindTransient Kind = iota

	// KindUnauthorized means the session has ended (missing, invalid, or
	// expired token). A 401 on any endpoint maps here.
	KindUnauthorized

	// KindValidation is a client-side input check that failed before any
	// network call, or a 4xx the server blamed on the request body.
	KindValidation

	// KindNotFound means the addressed resource does not exist.
	KindNotFound
)

// String returns the kind's name for log output.
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "transient"
	}
}

// Error is a structured backend or validation failure.
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status, 0 for client-side failures
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with no HTTP status.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message and no HTTP status.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// FromStatus maps a non-2xx HTTP status to an Error. message may be empty,
// in which case a generic "request failed with status N" message is used.
func FromStatus(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	kind := KindTransient
	switch {
	case status == http.StatusUnauthorized:
		kind = KindUnauthorized
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = KindValidation
	}
	return &Error{Kind: kind, Message: message, Status: status}
}

// kindOf extracts the kind from err, defaulting to KindTransient.
func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindTransient, false
}

// IsUnauthorized reports whether err carries KindUnauthorized.
func IsUnauthorized(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindUnauthorized
}

// IsValidation reports whether err carries KindValidation.
func IsValidation(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindValidation
}

// IsNotFound reports whether err carries KindNotFound.
func IsNotFound(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNotFound
}
