// Package domainerrors carries coded errors across package boundaries so
// callers can branch on the class of a failure without matching message text.
//
// Usage: construct with New at the point of failure, or Wrap when adding
// context to a lower-level error. Check with HasCode; messages are for humans
// and audit trails, never for control flow.
package domainerrors

import "errors"

// Code classifies a domain failure.
type Code string

const (
	// CodeValidation marks input that could never be accepted: malformed
	// email, unparseable phone, blank username, empty permission label.
	CodeValidation Code = "validation"

	// CodeStateTransition marks an operation that is legal in general but not
	// from the aggregate's current state.
	CodeStateTransition Code = "state_transition"

	// CodePermissionDenied marks a grant refused by policy rather than by
	// shape: the input parsed fine, the caller just may not have it.
	CodePermissionDenied Code = "permission_denied"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	code Code
	msg  string
	err  error
}

// New returns a coded error with the given message.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Wrap returns a coded error that annotates err. The cause stays reachable
// through errors.Is and errors.As.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{code: code, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the failure class.
func (e *Error) Code() Code {
	return e.code
}

// HasCode reports whether err or anything it wraps is a domain error with the
// given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		return false
	}
	if domainErr.code == code {
		return true
	}
	return HasCode(domainErr.err, code)
}
