// Package errors defines the coded errors shared by the placement library,
// the pipeline, the CLI and the HTTP API.
//
// Every failure a caller may want to branch on carries a [Code]. The CLI
// prints [UserMessage]; the server answers with [HTTPStatus] and, for option
// errors, the offending [Error.Field].
//
//	err := errors.New(errors.ErrCodeInfeasible, "placed %d of %d objects", n, count)
//	if errors.Is(err, errors.ErrCodeInfeasible) {
//	    // retry with another seed
//	}
//
//	err = errors.Wrap(errors.ErrCodeRenderFailed, cause, "render test%d_%d", i, j)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidKind    Code = "INVALID_KIND"
	ErrCodeInvalidOptions Code = "INVALID_OPTIONS"

	// Placement errors
	ErrCodeInfeasible Code = "INFEASIBLE_PLACEMENT"
	ErrCodeViolation  Code = "PLACEMENT_VIOLATION"

	// Collaborator errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Field names the option or input that was rejected,
// when there is one.
type Error struct {
	Code    Code
	Message string
	Field   string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithField sets Field and returns e.
func (e *Error) WithField(name string) *Error {
	e.Field = name
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// FieldOf returns the Field of the first *Error in err's chain that sets one.
func FieldOf(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Field != "" {
			return e.Field
		}
		err = e.Cause
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the HTTP status code the API responds with.
// Errors without a code are treated as internal errors.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidKind, ErrCodeInvalidOptions:
		return http.StatusBadRequest
	case ErrCodeInfeasible, ErrCodeViolation:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ErrCodeRenderFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
