// Package apperrors defines the error taxonomy shared by services, repositories and handlers
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how the caller should react to it
type Kind int

const (
	// KindInternal is any error not classified below
	KindInternal Kind = iota
	// KindValidation is malformed input (bad role value, missing field)
	KindValidation
	// KindConflict is a violated uniqueness, capacity or dependency rule
	KindConflict
	// KindAuthentication is a missing, invalid or expired credential
	KindAuthentication
	// KindAuthorization is a valid identity lacking role or ownership
	KindAuthorization
	// KindNotFound is a missing entity
	KindNotFound
	// KindInfrastructure is an unreachable store or missing schema
	KindInfrastructure
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "internal"
	}
}

// Error is a classified application error. Message is safe to show to clients, Err keeps the cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same kind and message, so package-level sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around a cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation creates a validation error
func Validation(message string) *Error { return New(KindValidation, message) }

// Conflict creates a conflict error
func Conflict(message string) *Error { return New(KindConflict, message) }

// NotFound creates a not found error
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Forbidden creates an authorization error
func Forbidden(message string) *Error { return New(KindAuthorization, message) }

// Unauthenticated creates an authentication error
func Unauthenticated(message string) *Error { return New(KindAuthentication, message) }

// Infrastructure wraps a store failure
func Infrastructure(err error) *Error {
	return Wrap(KindInfrastructure, MsgDatabaseUnavailable, err)
}

// Retryable wraps a transaction the store aborted; repeating the request may succeed
func Retryable(err error) *Error {
	return Wrap(KindInfrastructure, MsgTransactionAborted, err)
}

// KindOf returns the kind of the first *Error in the chain, KindInternal otherwise
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of the first *Error in the chain
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
