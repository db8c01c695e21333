package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"custodia/internal/secure"
	"custodia/internal/secure/metrics"
)

func printSection(title string) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println(" " + title)
	fmt.Println(strings.Repeat("=", 70))
}

func printStatus(account *secure.Account) {
	snap := account.Snapshot()
	fmt.Println()
	fmt.Println("Current Status:")
	fmt.Printf("  Username: %s\n", snap.Username)
	fmt.Printf("  Email: %s\n", snap.Email)
	fmt.Printf("  Phone: %s\n", snap.Phone)
	fmt.Printf("  Verification: %s\n", snap.Verification)
	fmt.Printf("  Permissions: %v\n", snap.Permissions)
}

func printAuditLog(ctx context.Context, account *secure.Account) {
	fmt.Println()
	fmt.Println("Audit Log:")
	for _, entry := range account.AuditLog(ctx) {
		fmt.Printf("  [%s] %s\n", entry.Timestamp, entry.Action)
		if entry.Details != "" {
			fmt.Printf("      %s\n", entry.Details)
		}
	}
}

// runDemo walks a single account through creation, permission grants and
// denials, the verification workflow, an email update, revocation, and the
// audit trail that records all of it.
func runDemo(ctx context.Context, log *slog.Logger) error {
	printSection("1. CREATING ACCOUNT WITH VALID DATA")

	account, err := secure.NewAccount(ctx,
		"john_doe",
		"john.doe@example.com",
		"+1-555-123-4567",
		secure.WithLogger(log),
		secure.WithMetrics(metrics.New()),
	)
	if err != nil {
		return err
	}
	fmt.Printf("\nAccount ID: %s\n", account.ID())
	printStatus(account)

	printSection("2. DEFENSIVE COPIES PROTECT INTERNAL STATE")

	fmt.Println()
	fmt.Println("Tampering with a returned permission list:")
	perms := account.Snapshot().Permissions
	perms = append(perms, "FAKE_PERMISSION")
	fmt.Printf("  Tampered copy:      %v\n", perms)
	fmt.Printf("  Actual permissions: %v\n", account.Snapshot().Permissions)

	fmt.Println()
	fmt.Println("Tampering with a returned audit entry:")
	entries := account.AuditLog(ctx)
	entries[0].Details = "forged"
	fmt.Printf("  Actual first entry: %s\n", account.AuditLog(ctx)[0].Details)

	printSection("3. GRANTING BASIC PERMISSIONS (UNVERIFIED)")

	for _, label := range []string{"VIEW", "EDIT"} {
		if err := account.GrantPermission(ctx, label); err != nil {
			fmt.Printf("failed to grant %s: %v\n", label, err)
		} else {
			fmt.Printf("granted %s\n", label)
		}
	}
	printStatus(account)

	printSection("4. ATTEMPTING RESTRICTED PERMISSIONS (UNVERIFIED)")

	for _, label := range []string{"TRANSFER", "WITHDRAW"} {
		if err := account.GrantPermission(ctx, label); err != nil {
			fmt.Printf("expected denial for %s: %v\n", label, err)
		} else {
			fmt.Printf("unexpected grant of %s\n", label)
		}
	}
	printStatus(account)

	printSection("5. ILLEGAL STATE TRANSITIONS")

	fmt.Println()
	fmt.Println("Verifying without requesting first:")
	if err := account.VerifyIdentity(ctx); err != nil {
		fmt.Printf("expected failure: %v\n", err)
	}

	printSection("6. PROPER VERIFICATION WORKFLOW")

	fmt.Println()
	fmt.Println("Requesting verification...")
	if err := account.RequestVerification(ctx); err != nil {
		return err
	}
	printStatus(account)

	fmt.Println()
	fmt.Println("Requesting verification again:")
	if err := account.RequestVerification(ctx); err != nil {
		fmt.Printf("expected failure: %v\n", err)
	}

	fmt.Println()
	fmt.Println("Verifying identity...")
	if err := account.VerifyIdentity(ctx); err != nil {
		return err
	}
	fmt.Printf("Verification status is now %s\n", account.IdentityStatus())
	printStatus(account)

	printSection("7. GRANTING RESTRICTED PERMISSIONS (VERIFIED)")

	for _, label := range []string{"TRANSFER", "WITHDRAW"} {
		if err := account.GrantPermission(ctx, label); err != nil {
			fmt.Printf("failed to grant %s: %v\n", label, err)
		} else {
			fmt.Printf("granted %s\n", label)
		}
	}
	printStatus(account)

	printSection("8. EMAIL UPDATE WITH VALIDATION")

	fmt.Println()
	fmt.Println("Updating email to a valid address:")
	if err := account.UpdateEmail(ctx, "john.newemail@company.com"); err != nil {
		fmt.Printf("failed: %v\n", err)
	} else {
		fmt.Println("email updated")
	}

	fmt.Println()
	fmt.Println("Updating email to an invalid address:")
	if err := account.UpdateEmail(ctx, "invalid-email-format"); err != nil {
		fmt.Printf("expected failure: %v\n", err)
	}
	printStatus(account)

	printSection("9. PERMISSION REVOCATION")

	fmt.Println()
	fmt.Printf("Holds EDIT before revocation: %t\n", account.HasPermission("EDIT"))
	fmt.Println("Revoking EDIT:")
	account.RevokePermission(ctx, "EDIT")
	fmt.Printf("Holds EDIT after revocation: %t\n", account.HasPermission("edit"))

	fmt.Println()
	fmt.Println("Revoking EXPORT (never granted):")
	account.RevokePermission(ctx, "EXPORT")
	printStatus(account)

	printSection("10. PHONE NUMBER IMMUTABILITY")

	fmt.Println()
	fmt.Println("The phone number is fixed at creation; no update operation exists.")
	fmt.Printf("Current phone: %s\n", account.Snapshot().Phone)

	printSection("11. COMPREHENSIVE AUDIT LOG")

	printAuditLog(ctx, account)

	printSection("12. FINAL STATE SUMMARY")

	printStatus(account)
	fmt.Printf("\n%s\n", account)
	fmt.Printf("Total audit log entries: %d\n", len(account.AuditLog(ctx)))

	printSection("13. INVALID ACCOUNT CREATION")

	fmt.Println()
	fmt.Println("Creating an account with an invalid email:")
	if _, err := secure.NewAccount(ctx, "jane_doe", "invalid.email", "+1-555-999-8888"); err != nil {
		fmt.Printf("expected failure: %v\n", err)
	}

	fmt.Println()
	fmt.Println("Creating an account with an invalid phone:")
	if _, err := secure.NewAccount(ctx, "jane_doe", "jane@example.com", "123-456"); err != nil {
		fmt.Printf("expected failure: %v\n", err)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println(" DEMONSTRATION COMPLETE")
	fmt.Println(strings.Repeat("=", 70))

	return nil
}
