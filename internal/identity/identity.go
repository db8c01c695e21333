package identity

import (
	"strings"
	"time"

	dErrors "custodia/pkg/domain-errors"
)

// Identity is the aggregate for one person's identity attributes.
//
// Invariants:
//   - Username is non-empty and immutable after construction
//   - Email always matches the validation pattern; it changes only through
//     UpdateEmail
//   - Phone is normalized at construction and immutable afterwards
//   - Status moves UNVERIFIED -> PENDING -> VERIFIED one step at a time,
//     never backwards
//   - History records every post-construction mutation in order;
//     construction itself adds no history
//
// All fields are unexported; after construction the aggregate changes only
// through its methods.
type Identity struct {
	username string
	email    Email
	phone    Phone
	status   VerificationStatus
	history  []Change
}

// Change records one mutation applied to the aggregate.
type Change struct {
	At    time.Time
	Field string
	From  string
	To    string
}

// New validates all inputs and returns an UNVERIFIED identity with an empty
// history.
func New(username, email, phone string) (*Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "username cannot be empty")
	}
	parsedEmail, err := ParseEmail(email)
	if err != nil {
		return nil, err
	}
	parsedPhone, err := ParsePhone(phone)
	if err != nil {
		return nil, err
	}
	return &Identity{
		username: username,
		email:    parsedEmail,
		phone:    parsedPhone,
		status:   StatusUnverified,
	}, nil
}

func (i *Identity) Username() string {
	return i.username
}

func (i *Identity) Email() Email {
	return i.email
}

func (i *Identity) Phone() Phone {
	return i.phone
}

func (i *Identity) Status() VerificationStatus {
	return i.status
}

// Verified reports whether verification has completed.
func (i *Identity) Verified() bool {
	return i.status == StatusVerified
}

// History returns a copy of the change log, oldest first.
func (i *Identity) History() []Change {
	return append([]Change{}, i.history...)
}

// CanRequestVerification checks the move to PENDING is legal from the
// current status. Use with ApplyVerificationRequest; RequestVerification
// combines both.
func (i *Identity) CanRequestVerification() error {
	if !i.status.CanTransitionTo(StatusPending) {
		return dErrors.New(dErrors.CodeStateTransition, "cannot request verification from "+i.status.String())
	}
	return nil
}

// ApplyVerificationRequest transitions to PENDING and records the change.
// Call CanRequestVerification first to validate the transition.
func (i *Identity) ApplyVerificationRequest(now time.Time) {
	i.recordChange(now, "status", i.status.String(), StatusPending.String())
	i.status = StatusPending
}

// RequestVerification validates and applies the move to PENDING in one call.
func (i *Identity) RequestVerification(now time.Time) error {
	if err := i.CanRequestVerification(); err != nil {
		return err
	}
	i.ApplyVerificationRequest(now)
	return nil
}

// CanVerify checks the final transition is legal from the current status,
// distinguishing a missing request from an already completed verification.
func (i *Identity) CanVerify() error {
	switch i.status {
	case StatusUnverified:
		return dErrors.New(dErrors.CodeStateTransition, "must request verification first")
	case StatusVerified:
		return dErrors.New(dErrors.CodeStateTransition, "already verified")
	}
	return nil
}

// ApplyVerification transitions to VERIFIED and records the change.
// Call CanVerify first to validate the transition.
func (i *Identity) ApplyVerification(now time.Time) {
	i.recordChange(now, "status", i.status.String(), StatusVerified.String())
	i.status = StatusVerified
}

// Verify validates and applies the final transition in one call.
func (i *Identity) Verify(now time.Time) error {
	if err := i.CanVerify(); err != nil {
		return err
	}
	i.ApplyVerification(now)
	return nil
}

// UpdateEmail replaces the address after validation and records old and new
// values. Invalid input leaves the aggregate untouched. There is no phone
// counterpart: phone numbers are immutable once set.
func (i *Identity) UpdateEmail(raw string, now time.Time) error {
	parsed, err := ParseEmail(raw)
	if err != nil {
		return err
	}
	i.recordChange(now, "email", i.email.String(), parsed.String())
	i.email = parsed
	return nil
}

func (i *Identity) recordChange(now time.Time, field, from, to string) {
	i.history = append(i.history, Change{At: now, Field: field, From: from, To: to})
}
