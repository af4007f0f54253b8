// Package errs provides the unified error type used across all of pgscope.
//
// Every subsystem (database, schema, snapshot, server, …) wraps its native
// errors into *errs.Error before returning them to callers. Callers use the
// Is* predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In the driver, wrap native errors:
//	return errs.Wrap(errs.ErrKindDatabase, "query failed", pgErr)
//
//	// In a handler, check the error kind:
//	if errs.IsNotConnected(err) {
//	    respondError(w, http.StatusBadRequest, err)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing engine-specific codes.
// The database layer maps pgx/SQLSTATE errors to one of these kinds,
// giving the HTTP layer a single consistent API for status mapping.
type ErrKind int

const (
	ErrKindUnknown           ErrKind = iota
	ErrKindValidation                // missing or malformed caller input
	ErrKindInvalidIdentifier         // identifier rejected by the sanitizer
	ErrKindNotConnected              // no active database connection
	ErrKindConnectionFailed          // connect attempt failed (auth, network, unknown database)
	ErrKindConstraintExists          // constraint with that name already exists
	ErrKindAlreadyExists             // other schema object (table, database) already exists
	ErrKindNotFound                  // table, constraint, or row not found
	ErrKindTimeout                   // context deadline / cancellation
	ErrKindDatabase                  // any other failure surfaced from the engine
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindValidation:
		return "validation_error"
	case ErrKindInvalidIdentifier:
		return "invalid_identifier"
	case ErrKindNotConnected:
		return "not_connected"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindConstraintExists:
		return "constraint_exists"
	case ErrKindAlreadyExists:
		return "already_exists"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindDatabase:
		return "database_error"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all pgscope subsystems.
// The database layer produces it; callers inspect it via the Is* predicates.
//
// Message must never contain credentials from a connection target.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsValidation reports whether err was caused by bad input from the caller.
func IsValidation(err error) bool {
	return KindOf(err) == ErrKindValidation
}

// IsInvalidIdentifier reports whether err is a sanitizer rejection.
func IsInvalidIdentifier(err error) bool {
	return KindOf(err) == ErrKindInvalidIdentifier
}

// IsNotConnected reports whether err means no active connection is installed.
func IsNotConnected(err error) bool {
	return KindOf(err) == ErrKindNotConnected
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsConstraintExists reports whether err means the constraint name is taken.
func IsConstraintExists(err error) bool {
	return KindOf(err) == ErrKindConstraintExists
}

// IsAlreadyExists reports whether err means a schema object with that name
// already exists.
func IsAlreadyExists(err error) bool {
	return KindOf(err) == ErrKindAlreadyExists
}

// IsNotFound reports whether err represents a "not found" result.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsDatabase reports whether err is an engine failure surfaced verbatim.
func IsDatabase(err error) bool {
	return KindOf(err) == ErrKindDatabase
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
