package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every error the stock ledger returns. Transport adapters map
// kinds to their own representation (HTTP status codes, CLI exit codes).
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindInternal   ErrorKind = "internal"
)

// Conflict codes.
const (
	CodeInsufficientStock = "insufficient_stock"
	CodeNegativeStock     = "negative_stock"
	CodeStockNotEmpty     = "stock_not_empty"
)

// Error carries a kind, an optional machine-readable code and a human-readable message.
type Error struct {
	Kind       ErrorKind
	Code       string
	Message    string
	Violations Violations
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Invalid builds a validation error from a list of violations.
func Invalid(violations Violations) error {
	return &Error{
		Kind:       KindValidation,
		Message:    violations.Summary(),
		Violations: violations,
	}
}

// NotFoundf builds a not-found error.
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a conflict error tagged with code.
func Conflictf(code, format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps a storage or transaction failure. Errors that already carry a kind
// pass through unchanged.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the kind of err; errors without one are Internal.
func KindOf(err error) ErrorKind {
	if de, ok := AsError(err); ok {
		return de.Kind
	}
	return KindInternal
}

// CodeOf returns the conflict code of err, or "".
func CodeOf(err error) string {
	if de, ok := AsError(err); ok {
		return de.Code
	}
	return ""
}
