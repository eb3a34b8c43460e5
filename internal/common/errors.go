// Package common defines the closed error taxonomy and small shared helpers
// used across filedepot components. Callers match errors with errors.Is
// against the kind sentinels (ErrValidation, ErrAuth, ErrNotFound,
// ErrStorage) and read the machine-checkable reason code when they need to
// distinguish failures of the same kind.
package common

import "fmt"

// Kind classifies an error into one of the four categories the transport
// layer knows how to surface.
type Kind int

const (
	// KindValidation - malformed, missing, or out-of-policy input.
	// Surfaced verbatim to the caller, never retried.
	KindValidation Kind = iota + 1
	// KindAuth - missing, invalid, or expired session/credentials.
	// Always surfaced as a generic rejection.
	KindAuth
	// KindNotFound - resource absent or not visible to the caller.
	// Deliberately indistinguishable from "exists but forbidden".
	KindNotFound
	// KindStorage - underlying store unavailable or write failure.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not found"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

// Error is a tagged error carrying a kind, a machine-checkable reason code,
// and a human-readable message. Storage errors additionally wrap their cause.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// Is matches two *Error values by kind, and by reason when the target
// specifies one. This makes errors.Is(err, ErrNotFound) work for any
// not-found error regardless of its reason code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

func (e *Error) Unwrap() error { return e.cause }

// Kind sentinels for errors.Is matching.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrStorage    = &Error{Kind: KindStorage}
)

// NewValidation builds a validation error with the given reason code and
// caller-facing message.
func NewValidation(reason, message string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: message}
}

// NewAuth builds the generic auth rejection. There is deliberately no
// variant carrying details: wrong, expired, and missing credentials must be
// indistinguishable to the caller.
func NewAuth() *Error {
	return &Error{Kind: KindAuth, Reason: "unauthorized", Message: "Unauthorized"}
}

// NewNotFound builds the generic not-found error, also used for resources
// that exist but are not visible to the caller.
func NewNotFound() *Error {
	return &Error{Kind: KindNotFound, Reason: "not_found", Message: "Not found"}
}

// NewStorage builds a storage error wrapping its cause. The cause is kept
// for logs; the transport layer surfaces only a generic server fault.
func NewStorage(reason string, cause error) *Error {
	e := &Error{Kind: KindStorage, Reason: reason, Message: "Internal server error"}
	if cause != nil {
		e.cause = fmt.Errorf("storage: %s: %w", reason, cause)
	}
	return e
}

// ReasonOf returns the reason code of a tagged error, or "" for foreign
// errors.
func ReasonOf(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Reason
	}
	return ""
}
