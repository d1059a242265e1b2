package querysql

import (
	"errors"
	"fmt"
)

// CompileError represents a translation-time failure.
//
// All compilation failures are synchronous and caller-visible; none are
// retried or recovered internally, and there is no partial output - a
// predicate either compiles fully or not at all. Callers should treat any
// CompileError as a programming error in the supplied predicate, surfaced
// at compile time rather than deferred to query execution.
type CompileError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the rendered JSON path of the offending leaf, when known.
	Path string

	// Err is the underlying error, if any (e.g. from a computed operand).
	Err error
}

// ErrorCode categorizes compilation errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedPath indicates a member-access chain the resolver
	// cannot translate (empty chain, subscript on the root, unnamed member).
	ErrCodeUnsupportedPath ErrorCode = "UNSUPPORTED_PATH"

	// ErrCodeInvalidArrayIndex indicates a subscript that did not resolve
	// to a non-negative integer.
	ErrCodeInvalidArrayIndex ErrorCode = "INVALID_ARRAY_INDEX"

	// ErrCodeUnresolvableValue indicates a value operand that could not be
	// evaluated (unknown captured name, nil scope, failing thunk).
	ErrCodeUnresolvableValue ErrorCode = "UNRESOLVABLE_VALUE"

	// ErrCodeUnsupportedOperator indicates an operator applied to a value
	// type it is not defined for (e.g. ordering on a boolean), or a value
	// outside the scalar set.
	ErrCodeUnsupportedOperator ErrorCode = "UNSUPPORTED_OPERATOR"
)

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// IsUnsupportedPath reports whether err is an UNSUPPORTED_PATH error.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedPath(err error) bool { return hasCode(err, ErrCodeUnsupportedPath) }

// IsInvalidArrayIndex reports whether err is an INVALID_ARRAY_INDEX error.
func IsInvalidArrayIndex(err error) bool { return hasCode(err, ErrCodeInvalidArrayIndex) }

// IsUnresolvableValue reports whether err is an UNRESOLVABLE_VALUE error.
func IsUnresolvableValue(err error) bool { return hasCode(err, ErrCodeUnresolvableValue) }

// IsUnsupportedOperator reports whether err is an UNSUPPORTED_OPERATOR error.
func IsUnsupportedOperator(err error) bool { return hasCode(err, ErrCodeUnsupportedOperator) }

func hasCode(err error, code ErrorCode) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
