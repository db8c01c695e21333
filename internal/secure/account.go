// Package secure composes an identity and its permission set behind one
// facade that audits every mutation.
package secure

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"custodia/internal/access"
	"custodia/internal/audit"
	"custodia/internal/identity"
	"custodia/internal/secure/metrics"
	"custodia/pkg/attrs"
	id "custodia/pkg/domain"
	"custodia/pkg/requestcontext"
)

// AuditStore records an account's append-only trail. Satisfied by
// *audit.Trail; a fan-out sink can be swapped in without touching the
// account. Append cannot fail: operations must never be lost or aborted
// because recording them failed.
type AuditStore interface {
	Append(ctx context.Context, entry audit.Entry)
	List(ctx context.Context) []audit.Entry
}

// Account mediates every identity and permission mutation for one account
// and records each attempt in the audit trail.
//
// Invariants:
//   - Every mutation appends exactly one audit entry, success or failure
//   - Reads append nothing
//   - The owned Identity and Control are reachable only through Account
//     methods, so the single mutex serializes all state changes
//   - The verified flag used in grant decisions is read under the same lock
//     as the grant itself
type Account struct {
	id       id.AccountID
	mu       sync.Mutex
	identity *identity.Identity
	access   *access.Control
	auditor  AuditStore
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(a *Account)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Account) {
		a.logger = logger
	}
}

// WithAuditStore replaces the default in-memory trail.
func WithAuditStore(store AuditStore) Option {
	return func(a *Account) {
		a.auditor = store
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Account) {
		a.metrics = m
	}
}

// NewAccount validates the identity inputs and returns an account holding an
// empty permission set, with the creation entry already recorded. Validation
// failures return before any account exists, so nothing is audited for them.
func NewAccount(ctx context.Context, username, email, phone string, opts ...Option) (*Account, error) {
	ident, err := identity.New(username, email, phone)
	if err != nil {
		return nil, err
	}

	a := &Account{
		id:       id.NewAccountID(),
		identity: ident,
		access:   access.NewControl(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.auditor == nil {
		a.auditor = audit.NewTrail()
	}

	a.logAudit(ctx, audit.ActionAccountCreated,
		"details", "Username: "+ident.Username(),
		"account_id", a.id.String())
	a.incrementAccountsCreated()

	return a, nil
}

func (a *Account) ID() id.AccountID {
	return a.id
}

// GrantPermission adds a permission, enforcing the restricted-permission
// policy against the identity's verification state at this moment.
func (a *Account) GrantPermission(ctx context.Context, label string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	verified := a.identity.Verified()
	granted, err := a.access.Grant(label, verified)
	if err != nil {
		a.logAudit(ctx, audit.ActionPermissionGrantFailed,
			"details", fmt.Sprintf("Permission: %s, Reason: %s", label, err),
			"account_id", a.id.String())
		a.incrementPermissionGrant(metrics.ResultFailure)
		return err
	}

	a.logAudit(ctx, audit.ActionPermissionGranted,
		"details", fmt.Sprintf("Permission: %s, Verified: %t", label, verified),
		"account_id", a.id.String(),
		"permission", granted.String())
	a.incrementPermissionGrant(metrics.ResultSuccess)
	return nil
}

// RevokePermission removes a permission regardless of its class or the
// identity's current status. A miss is recorded in the trail, not returned
// as an error: the end state the caller asked for holds either way.
func (a *Account) RevokePermission(ctx context.Context, label string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.access.Revoke(label); !ok {
		a.logAudit(ctx, audit.ActionPermissionRevokeMiss,
			"details", "Permission: "+label,
			"account_id", a.id.String())
		a.incrementPermissionRevocation(metrics.ResultFailure)
		return
	}

	a.logAudit(ctx, audit.ActionPermissionRevoked,
		"details", "Permission: "+label,
		"account_id", a.id.String())
	a.incrementPermissionRevocation(metrics.ResultSuccess)
}

// HasPermission reports membership without writing to the trail.
func (a *Account) HasPermission(label string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.access.Has(label)
}

// RequestVerification moves the identity from UNVERIFIED to PENDING.
func (a *Account) RequestVerification(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.identity.RequestVerification(requestcontext.Now(ctx)); err != nil {
		a.logAudit(ctx, audit.ActionVerificationRequestFailed,
			"details", err.Error(),
			"account_id", a.id.String())
		a.incrementVerificationTransition(metrics.ResultFailure)
		return err
	}

	a.logAudit(ctx, audit.ActionVerificationRequested,
		"details", "Status: "+identity.StatusPending.String(),
		"account_id", a.id.String())
	a.incrementVerificationTransition(metrics.ResultSuccess)
	return nil
}

// VerifyIdentity completes verification, moving PENDING to VERIFIED.
func (a *Account) VerifyIdentity(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.identity.Verify(requestcontext.Now(ctx)); err != nil {
		a.logAudit(ctx, audit.ActionVerificationFailed,
			"details", err.Error(),
			"account_id", a.id.String())
		a.incrementVerificationTransition(metrics.ResultFailure)
		return err
	}

	a.logAudit(ctx, audit.ActionIdentityVerified,
		"details", "Status: "+identity.StatusVerified.String(),
		"account_id", a.id.String())
	a.incrementVerificationTransition(metrics.ResultSuccess)
	return nil
}

// UpdateEmail replaces the identity's email after validation. Both the old
// and new addresses land in the trail.
func (a *Account) UpdateEmail(ctx context.Context, raw string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	oldEmail := a.identity.Email().String()
	if err := a.identity.UpdateEmail(raw, requestcontext.Now(ctx)); err != nil {
		a.logAudit(ctx, audit.ActionEmailUpdateFailed,
			"details", err.Error(),
			"account_id", a.id.String())
		a.incrementEmailUpdate(metrics.ResultFailure)
		return err
	}

	a.logAudit(ctx, audit.ActionEmailUpdated,
		"details", oldEmail+" -> "+raw,
		"account_id", a.id.String())
	a.incrementEmailUpdate(metrics.ResultSuccess)
	return nil
}

// IdentityStatus reports the current verification status. Not audited.
func (a *Account) IdentityStatus() identity.VerificationStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity.Status()
}

// Status is a point-in-time read model of one account.
type Status struct {
	ID           id.AccountID
	Username     string
	Email        string
	Phone        string
	Verification identity.VerificationStatus
	Permissions  []access.Permission
}

// Snapshot returns a consistent copy of the account's current state. The
// permission slice is detached; mutating it cannot reach the account.
func (a *Account) Snapshot() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{
		ID:           a.id,
		Username:     a.identity.Username(),
		Email:        a.identity.Email().String(),
		Phone:        a.identity.Phone().String(),
		Verification: a.identity.Status(),
		Permissions:  a.access.Permissions(),
	}
}

// AuditLog returns a copy of the trail, oldest entry first. Reading the
// trail is itself not audited.
func (a *Account) AuditLog(ctx context.Context) []audit.Entry {
	return a.auditor.List(ctx)
}

// String renders a one-line summary for logs and CLI output.
func (a *Account) String() string {
	snap := a.Snapshot()
	return fmt.Sprintf("Account(username=%s, status=%s, permissions=%v)",
		snap.Username, snap.Verification, snap.Permissions)
}

func (a *Account) logAudit(ctx context.Context, action audit.Action, attributes ...any) {
	args := append(attributes, "event", string(action), "log_type", "audit")
	if a.logger != nil {
		a.logger.InfoContext(ctx, string(action), args...)
	}
	details := attrs.Lookup(attributes, "details")
	a.auditor.Append(ctx, audit.NewEntry(requestcontext.Now(ctx), action, details))
}

func (a *Account) incrementAccountsCreated() {
	if a.metrics != nil {
		a.metrics.IncrementAccountsCreated()
	}
}

func (a *Account) incrementPermissionGrant(result string) {
	if a.metrics != nil {
		a.metrics.IncrementPermissionGrant(result)
	}
}

func (a *Account) incrementPermissionRevocation(result string) {
	if a.metrics != nil {
		a.metrics.IncrementPermissionRevocation(result)
	}
}

func (a *Account) incrementVerificationTransition(result string) {
	if a.metrics != nil {
		a.metrics.IncrementVerificationTransition(result)
	}
}

func (a *Account) incrementEmailUpdate(result string) {
	if a.metrics != nil {
		a.metrics.IncrementEmailUpdate(result)
	}
}
