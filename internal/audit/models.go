package audit

import "time"

// TimestampLayout is the wall-clock format stamped on every trail entry.
const TimestampLayout = "2006-01-02 15:04:05"

// Action names an audited account operation. The vocabulary is closed:
// downstream tooling greps and alerts on these exact strings, so additions
// are fine but existing values must not change.
type Action string

const (
	ActionAccountCreated            Action = "Account created"
	ActionPermissionGranted         Action = "Permission granted"
	ActionPermissionGrantFailed     Action = "Permission grant FAILED"
	ActionPermissionRevoked         Action = "Permission revoked"
	ActionPermissionRevokeMiss      Action = "Permission revoke failed (not found)"
	ActionVerificationRequested     Action = "Verification requested"
	ActionVerificationRequestFailed Action = "Verification request FAILED"
	ActionIdentityVerified          Action = "Identity verified"
	ActionVerificationFailed        Action = "Verification FAILED"
	ActionEmailUpdated              Action = "Email updated"
	ActionEmailUpdateFailed         Action = "Email update FAILED"
)

// Entry is one immutable audit trail record. Keep it transport-agnostic so
// stores and sinks can fan out.
//
// Timestamp is stored pre-formatted in TimestampLayout; entries read the
// same everywhere they surface.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Action    Action `json:"action"`
	Details   string `json:"details"`
}

// NewEntry stamps an entry from the supplied clock reading.
func NewEntry(now time.Time, action Action, details string) Entry {
	return Entry{
		Timestamp: now.Format(TimestampLayout),
		Action:    action,
		Details:   details,
	}
}
