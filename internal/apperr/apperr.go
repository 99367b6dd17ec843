package apperr

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable failure category surfaced to callers.
type Kind string

const (
	KindRequest          Kind = "request_error"     // malformed or absent body
	KindParam            Kind = "param_error"       // validation failure
	KindConflict         Kind = "conflict"          // duplicate account
	KindAuth             Kind = "auth_error"        // bad credentials / not logged in
	KindNotFound         Kind = "not_found"         // no such account or user
	KindPermissionDenied Kind = "permission_denied" // role-forbidden field or target
	KindInvalidState     Kind = "invalid_state"     // unrecognized role, demands re-login
	KindSystem           Kind = "system_error"      // infrastructure failure
)

// Error is a typed failure carrying a kind and a human-readable message.
// Errors are never silently swallowed; infrastructure causes are kept in
// Err for logging while Message stays safe to return to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind preserving the underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err; anything untyped is a system error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindSystem
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
