// Package faults defines the categorized errors engagectl surfaces to callers.
// Every fatal condition maps to exactly one Kind; non-fatal conditions are
// reported through the warning and verbose writers instead and never appear
// here.
package faults

import (
	"errors"
	"fmt"
)

// Kind is the category of a fault.
type Kind string

const (
	// KindInvalidArgument covers precondition violations caught before any
	// remote call.
	KindInvalidArgument Kind = "invalid_argument"
	// KindResourceUnavailable covers a missing or unloadable connector.
	KindResourceUnavailable Kind = "resource_unavailable"
	// KindConnection covers session establishment failures.
	KindConnection Kind = "connection_error"
	// KindObjectNotFound covers features absent from the remote catalog.
	KindObjectNotFound Kind = "object_not_found"
)

// Error is a categorized fault with a stable code for scripting against.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a fault without an underlying cause.
func New(kind Kind, code string, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a fault around an underlying cause.
func Wrap(kind Kind, code string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err when it is (or wraps) a fault, or "" otherwise.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsInvalidArgument reports whether err is an invalid-argument fault.
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }

// IsResourceUnavailable reports whether err is a resource-unavailable fault.
func IsResourceUnavailable(err error) bool { return KindOf(err) == KindResourceUnavailable }

// IsConnection reports whether err is a connection fault.
func IsConnection(err error) bool { return KindOf(err) == KindConnection }

// IsObjectNotFound reports whether err is an object-not-found fault.
func IsObjectNotFound(err error) bool { return KindOf(err) == KindObjectNotFound }
