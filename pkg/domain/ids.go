// Package domain holds shared identifier types used across modules.
package domain

import (
	"github.com/google/uuid"

	dErrors "custodia/pkg/domain-errors"
)

// AccountID uniquely identifies a secured account. The distinct type prevents
// account identifiers from being confused with other UUIDs at compile time.
type AccountID uuid.UUID

// NewAccountID returns a fresh random identifier.
func NewAccountID() AccountID {
	return AccountID(uuid.New())
}

// ParseAccountID constructs an AccountID from external input.
//
// Usage: call at trust boundaries (CLI arguments, persisted snapshots);
// direct casting bypasses validation.
//
// Errors: returns CodeValidation when the value is empty, not a UUID, or the
// nil UUID; no other errors are expected.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return AccountID{}, dErrors.New(dErrors.CodeValidation, "account id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return AccountID{}, dErrors.New(dErrors.CodeValidation, "account id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return AccountID{}, dErrors.New(dErrors.CodeValidation, "account id cannot be the nil UUID")
	}
	return AccountID(parsed), nil
}

func (id AccountID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether the identifier is unset.
func (id AccountID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}
