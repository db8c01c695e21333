// Package access manages the permission set for one account, including the
// restricted permissions that require a verified identity at grant time.
package access

import (
	"slices"
	"strings"

	dErrors "custodia/pkg/domain-errors"
)

// Permission is a named capability on an account. Always stored uppercase so
// lookups are case-insensitive from the caller's point of view.
type Permission string

// Restricted permissions move money and therefore require a verified
// identity when granted.
const (
	PermissionTransfer Permission = "TRANSFER"
	PermissionWithdraw Permission = "WITHDRAW"
)

// restricted is the single source of truth for the restricted set.
var restricted = map[Permission]bool{
	PermissionTransfer: true,
	PermissionWithdraw: true,
}

// ParsePermission normalizes external input into the canonical uppercase
// form.
//
// Errors: returns CodeValidation when the trimmed label is empty; no other
// errors are expected.
func ParsePermission(raw string) (Permission, error) {
	label := strings.ToUpper(strings.TrimSpace(raw))
	if label == "" {
		return "", dErrors.New(dErrors.CodeValidation, "permission label cannot be empty")
	}
	return Permission(label), nil
}

// IsRestricted reports whether granting p requires a verified identity.
func (p Permission) IsRestricted() bool {
	return restricted[p]
}

func (p Permission) String() string {
	return string(p)
}

// Restricted returns the restricted permission set, sorted, as a copy.
func Restricted() []Permission {
	out := make([]Permission, 0, len(restricted))
	for p := range restricted {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
