package secure

//go:generate mockgen -source=account.go -destination=mocks/mocks.go -package=mocks AuditStore

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"custodia/internal/audit"
	"custodia/internal/identity"
	"custodia/internal/secure/mocks"
	dErrors "custodia/pkg/domain-errors"
	"custodia/pkg/requestcontext"
)

// =============================================================================
// Account Facade Test Suite
// =============================================================================
// Justification for unit tests: The account facade is the only gateway to
// identity and permission state. These tests verify that every mutation
// appends exactly one audit entry with the documented details format, that
// failures are recorded as faithfully as successes, and that reads append
// nothing. The mock store makes any stray append a test failure.

type AccountSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockAuditor *mocks.MockAuditStore
	ctx         context.Context
	now         time.Time
}

func TestAccountSuite(t *testing.T) {
	suite.Run(t, new(AccountSuite))
}

func (s *AccountSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAuditor = mocks.NewMockAuditStore(s.ctrl)
	s.now = time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *AccountSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AccountSuite) entry(action audit.Action, details string) audit.Entry {
	return audit.Entry{
		Timestamp: s.now.Format(audit.TimestampLayout),
		Action:    action,
		Details:   details,
	}
}

func (s *AccountSuite) newAccount(opts ...Option) *Account {
	s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionAccountCreated, "Username: john_doe"))
	opts = append(opts, WithAuditStore(s.mockAuditor))
	account, err := NewAccount(s.ctx, "john_doe", "john.doe@example.com", "+1-555-123-4567", opts...)
	s.Require().NoError(err)
	return account
}

func (s *AccountSuite) verifiedAccount() *Account {
	account := s.newAccount()
	s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionVerificationRequested, "Status: PENDING"))
	s.Require().NoError(account.RequestVerification(s.ctx))
	s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionIdentityVerified, "Status: VERIFIED"))
	s.Require().NoError(account.VerifyIdentity(s.ctx))
	return account
}

// =============================================================================
// Constructor Tests
// =============================================================================
// Justification: Creation is the one operation that can fail before any
// account exists. Nothing may reach the trail for a rejected identity.

func (s *AccountSuite) TestNewAccount() {
	s.Run("valid inputs record a creation entry", func() {
		account := s.newAccount()

		snap := account.Snapshot()
		s.False(snap.ID.IsZero())
		s.Equal("john_doe", snap.Username)
		s.Equal("john.doe@example.com", snap.Email)
		s.Equal("+15551234567", snap.Phone)
		s.Equal(identity.StatusUnverified, snap.Verification)
		s.Empty(snap.Permissions)
	})

	s.Run("invalid email fails without auditing", func() {
		_, err := NewAccount(s.ctx, "john_doe", "not-an-email", "+1-555-123-4567",
			WithAuditStore(s.mockAuditor))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("invalid phone fails without auditing", func() {
		_, err := NewAccount(s.ctx, "john_doe", "john.doe@example.com", "123-456",
			WithAuditStore(s.mockAuditor))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("blank username fails without auditing", func() {
		_, err := NewAccount(s.ctx, "   ", "john.doe@example.com", "+1-555-123-4567",
			WithAuditStore(s.mockAuditor))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("defaults to an in-memory trail", func() {
		account, err := NewAccount(s.ctx, "jane_doe", "jane@example.com", "+44 20 7946 0958")
		s.Require().NoError(err)

		entries := account.AuditLog(s.ctx)
		s.Require().Len(entries, 1)
		s.Equal(audit.ActionAccountCreated, entries[0].Action)
		s.Equal("Username: jane_doe", entries[0].Details)
	})

	s.Run("options are applied", func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		account := s.newAccount(WithLogger(logger))
		s.Equal(logger, account.logger)
		s.Equal(s.mockAuditor, account.auditor)
	})
}

// =============================================================================
// Permission Grant Tests
// =============================================================================
// Justification: Grants are the only policy decision the facade makes. The
// details format pairs the raw label with the verification flag the decision
// used, so an auditor can reconstruct why a grant passed or was denied.

func (s *AccountSuite) TestGrantPermission() {
	s.Run("grants an unrestricted permission while unverified", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGranted, "Permission: VIEW, Verified: false"))

		s.Require().NoError(account.GrantPermission(s.ctx, "VIEW"))
		s.True(account.HasPermission("VIEW"))
	})

	s.Run("denies a restricted permission while unverified", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGrantFailed,
			"Permission: TRANSFER, Reason: cannot grant TRANSFER: identity must be VERIFIED to receive restricted permissions"))

		err := account.GrantPermission(s.ctx, "TRANSFER")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodePermissionDenied))
		s.False(account.HasPermission("TRANSFER"))
	})

	s.Run("grants a restricted permission once verified", func() {
		account := s.verifiedAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGranted, "Permission: WITHDRAW, Verified: true"))

		s.Require().NoError(account.GrantPermission(s.ctx, "WITHDRAW"))
		s.True(account.HasPermission("WITHDRAW"))
	})

	s.Run("records the raw label next to the stored form", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGranted, "Permission: edit, Verified: false"))

		s.Require().NoError(account.GrantPermission(s.ctx, "edit"))
		s.True(account.HasPermission("EDIT"))
	})

	s.Run("rejects an unusable label", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGrantFailed,
			"Permission:  , Reason: permission label cannot be empty"))

		err := account.GrantPermission(s.ctx, " ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Permission Revoke Tests
// =============================================================================

func (s *AccountSuite) TestRevokePermission() {
	s.Run("revokes a granted permission", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGranted, "Permission: VIEW, Verified: false"))
		s.Require().NoError(account.GrantPermission(s.ctx, "VIEW"))

		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionRevoked, "Permission: VIEW"))
		account.RevokePermission(s.ctx, "VIEW")
		s.False(account.HasPermission("VIEW"))
	})

	s.Run("records a miss without failing", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionRevokeMiss, "Permission: EXPORT"))

		account.RevokePermission(s.ctx, "EXPORT")
	})

	s.Run("revokes a restricted permission without a verified identity", func() {
		account := s.verifiedAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGranted, "Permission: TRANSFER, Verified: true"))
		s.Require().NoError(account.GrantPermission(s.ctx, "TRANSFER"))

		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionRevoked, "Permission: TRANSFER"))
		account.RevokePermission(s.ctx, "TRANSFER")
		s.False(account.HasPermission("TRANSFER"))
	})
}

// =============================================================================
// Verification Lifecycle Tests
// =============================================================================
// Justification: The status machine permits exactly two transitions. Each
// rejected transition must still land in the trail with the reason as its
// details, because a denied verification attempt is itself a security event.

func (s *AccountSuite) TestVerificationLifecycle() {
	s.Run("walks UNVERIFIED through PENDING to VERIFIED", func() {
		account := s.newAccount()
		gomock.InOrder(
			s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionVerificationRequested, "Status: PENDING")),
			s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionIdentityVerified, "Status: VERIFIED")),
		)

		s.Require().NoError(account.RequestVerification(s.ctx))
		s.Equal(identity.StatusPending, account.IdentityStatus())
		s.Require().NoError(account.VerifyIdentity(s.ctx))
		s.Equal(identity.StatusVerified, account.IdentityStatus())
	})

	s.Run("rejects verification before a request", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionVerificationFailed, "must request verification first"))

		err := account.VerifyIdentity(s.ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeStateTransition))
		s.Equal(identity.StatusUnverified, account.IdentityStatus())
	})

	s.Run("rejects a repeated request", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionVerificationRequested, "Status: PENDING"))
		s.Require().NoError(account.RequestVerification(s.ctx))

		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionVerificationRequestFailed,
			"cannot request verification from PENDING"))
		err := account.RequestVerification(s.ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeStateTransition))
	})

	s.Run("rejects verification when already verified", func() {
		account := s.verifiedAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionVerificationFailed, "already verified"))

		err := account.VerifyIdentity(s.ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeStateTransition))
		s.Equal(identity.StatusVerified, account.IdentityStatus())
	})
}

// =============================================================================
// Email Update Tests
// =============================================================================

func (s *AccountSuite) TestUpdateEmail() {
	s.Run("replaces the email and records both addresses", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionEmailUpdated,
			"john.doe@example.com -> john.new@company.com"))

		s.Require().NoError(account.UpdateEmail(s.ctx, "john.new@company.com"))
		s.Equal("john.new@company.com", account.Snapshot().Email)
	})

	s.Run("keeps the old email on invalid input", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionEmailUpdateFailed,
			"invalid email format: not-an-email"))

		err := account.UpdateEmail(s.ctx, "not-an-email")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("john.doe@example.com", account.Snapshot().Email)
	})
}

// =============================================================================
// Read Model Tests
// =============================================================================
// Justification: Reads must never write to the trail and must never hand out
// aliases of internal state. The strict mock covers the former; tampering
// with a returned slice covers the latter.

func (s *AccountSuite) TestReads() {
	s.Run("snapshot permissions are detached", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGranted, "Permission: EDIT, Verified: false"))
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGranted, "Permission: VIEW, Verified: false"))
		s.Require().NoError(account.GrantPermission(s.ctx, "EDIT"))
		s.Require().NoError(account.GrantPermission(s.ctx, "VIEW"))

		snap := account.Snapshot()
		s.Require().Len(snap.Permissions, 2)
		snap.Permissions[0] = "FORGED"

		s.True(account.HasPermission("EDIT"))
		s.Equal("EDIT", account.Snapshot().Permissions[0].String())
	})

	s.Run("reads append nothing", func() {
		account := s.newAccount()

		account.HasPermission("VIEW")
		account.IdentityStatus()
		account.Snapshot()
		_ = account.String()
	})

	s.Run("string renders a one-line summary", func() {
		account := s.newAccount()
		s.Equal("Account(username=john_doe, status=UNVERIFIED, permissions=[])", account.String())
	})
}

// =============================================================================
// Audit Logging Tests
// =============================================================================

func (s *AccountSuite) TestAuditLogging() {
	s.Run("mutations emit structured audit logs", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		account := s.newAccount(WithLogger(logger))

		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGranted, "Permission: VIEW, Verified: false"))
		s.Require().NoError(account.GrantPermission(s.ctx, "VIEW"))

		s.Contains(buf.String(), "log_type=audit")
		s.Contains(buf.String(), `event="Permission granted"`)
	})

	s.Run("a nil logger only feeds the trail", func() {
		account := s.newAccount()
		s.mockAuditor.EXPECT().Append(gomock.Any(), s.entry(audit.ActionPermissionGranted, "Permission: VIEW, Verified: false"))

		s.Require().NoError(account.GrantPermission(s.ctx, "VIEW"))
	})

	s.Run("audit log is read straight from the store", func() {
		account := s.newAccount()
		want := []audit.Entry{s.entry(audit.ActionAccountCreated, "Username: john_doe")}
		s.mockAuditor.EXPECT().List(gomock.Any()).Return(want)

		s.Equal(want, account.AuditLog(s.ctx))
	})
}
