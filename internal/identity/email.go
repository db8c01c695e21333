package identity

import (
	"regexp"

	dErrors "custodia/pkg/domain-errors"
)

// Email is a validated email address.
type Email string

// emailPattern accepts one local part, one "@", a dotted domain, and a TLD
// of at least two letters. Quoted local parts and internationalized forms
// are rejected.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ParseEmail constructs an Email from external input.
//
// Usage: call at trust boundaries; direct casting bypasses validation.
//
// Errors: returns CodeValidation naming the rejected input; no other errors
// are expected.
func ParseEmail(raw string) (Email, error) {
	if !emailPattern.MatchString(raw) {
		return "", dErrors.New(dErrors.CodeValidation, "invalid email format: "+raw)
	}
	return Email(raw), nil
}

func (e Email) String() string {
	return string(e)
}
