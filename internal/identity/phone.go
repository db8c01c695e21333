package identity

import (
	"strings"

	dErrors "custodia/pkg/domain-errors"
)

// Phone is a phone number normalized to "+" followed by 10 to 15 digits.
// Formatting characters are stripped at parse time, so the stored value is
// always in canonical form.
type Phone string

// Cleaned length bounds, counting the leading "+".
const (
	phoneMinLen = 11
	phoneMaxLen = 16
)

var phoneCleaner = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// ParsePhone validates and normalizes external input. The raw value must
// start with "+" before any stripping happens, so " +15551234567" is
// rejected. Spaces, hyphens, and parentheses are then removed, making
// "+44 20 7946-0958" and "+442079460958" the same number; only digits may
// follow the "+" in the cleaned form.
//
// Errors: returns CodeValidation naming the rejected input; no other errors
// are expected.
func ParsePhone(raw string) (Phone, error) {
	if !strings.HasPrefix(raw, "+") {
		return "", invalidPhone(raw)
	}
	cleaned := phoneCleaner.Replace(raw)
	if len(cleaned) < phoneMinLen || len(cleaned) > phoneMaxLen {
		return "", invalidPhone(raw)
	}
	for _, r := range cleaned[1:] {
		if r < '0' || r > '9' {
			return "", invalidPhone(raw)
		}
	}
	return Phone(cleaned), nil
}

func invalidPhone(raw string) error {
	return dErrors.New(dErrors.CodeValidation, "invalid phone format: "+raw+", expected +<country code><number>")
}

func (p Phone) String() string {
	return string(p)
}
