package scrapekb

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// EFETCH marks network, HTTP status, and local read failures.
	EFETCH = "fetch"
	// EEXTRACT marks pages where no extraction strategy passed the quality gate.
	EEXTRACT = "extract"
	// EPARSE marks HTML or PDF input too malformed to traverse.
	EPARSE = "parse"
)

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Target is the URL or path the error relates to, if any.
	Target string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Target != "" {
		msg = e.Target + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("scrapekb error: code=%s message=%s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// FetchError reports that target could not be retrieved.
func FetchError(target string, cause error) *Error {
	return &Error{Code: EFETCH, Message: "fetch failed", Target: target, Err: cause}
}

// ExtractionFailure reports that no strategy isolated usable content.
func ExtractionFailure(target, reason string) *Error {
	return &Error{Code: EEXTRACT, Message: reason, Target: target}
}

// ParseError reports that the document at target could not be traversed.
func ParseError(target string, cause error) *Error {
	return &Error{Code: EPARSE, Message: "malformed document", Target: target, Err: cause}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
