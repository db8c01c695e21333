package identity

// VerificationStatus tracks how far an identity has progressed through
// verification.
//
// Transitions: UNVERIFIED -> PENDING -> VERIFIED, one step at a time.
// VERIFIED is terminal; there is no path back.
type VerificationStatus string

const (
	StatusUnverified VerificationStatus = "UNVERIFIED"
	StatusPending    VerificationStatus = "PENDING"
	StatusVerified   VerificationStatus = "VERIFIED"
)

// validTransitions is the single source of truth for the lifecycle.
var validTransitions = map[VerificationStatus]VerificationStatus{
	StatusUnverified: StatusPending,
	StatusPending:    StatusVerified,
}

// IsValid checks the status is one of the supported enum values.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case StatusUnverified, StatusPending, StatusVerified:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is the legal successor of s.
func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	return validTransitions[s] == next
}

func (s VerificationStatus) String() string {
	return string(s)
}
