package access

import (
	"slices"

	dErrors "custodia/pkg/domain-errors"
)

// Control is the permission set for one account.
//
// Invariants:
//   - Every stored permission is non-empty and uppercase
//   - Restricted permissions enter the set only when the caller attests the
//     identity was verified at grant time
//
// Control trusts the verified flag it is handed and performs no identity
// lookups of its own; composing it with the actual verification state is the
// owning account's job. It also holds no lock: the owner serializes access.
type Control struct {
	granted map[Permission]bool
}

func NewControl() *Control {
	return &Control{granted: make(map[Permission]bool)}
}

// Grant adds the normalized permission to the set. Granting a permission the
// account already holds is a no-op success. Verification is checked at grant
// time only; a later status change does not retroactively alter the set.
//
// Errors: CodeValidation for an unusable label, CodePermissionDenied when a
// restricted permission is granted without verification.
func (c *Control) Grant(raw string, verified bool) (Permission, error) {
	p, err := ParsePermission(raw)
	if err != nil {
		return "", err
	}
	if p.IsRestricted() && !verified {
		return "", dErrors.New(dErrors.CodePermissionDenied,
			"cannot grant "+p.String()+": identity must be VERIFIED to receive restricted permissions")
	}
	c.granted[p] = true
	return p, nil
}

// Revoke removes the permission whatever its class; revocation never needs
// verification. The boolean reports whether the permission was held.
func (c *Control) Revoke(raw string) (Permission, bool) {
	p, err := ParsePermission(raw)
	if err != nil {
		return "", false
	}
	if !c.granted[p] {
		return p, false
	}
	delete(c.granted, p)
	return p, true
}

// Has reports membership under the same normalization as Grant.
func (c *Control) Has(raw string) bool {
	p, err := ParsePermission(raw)
	if err != nil {
		return false
	}
	return c.granted[p]
}

// Permissions returns the granted set, sorted, as a copy.
func (c *Control) Permissions() []Permission {
	out := make([]Permission, 0, len(c.granted))
	for p := range c.granted {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
