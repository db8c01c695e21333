package testutil

import "testing"

// Given, When, and Then keep long behavioral tests readable without pulling
// in a heavy BDD framework. Each runs its body as a named subtest.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}

// Scenario groups one complete walkthrough under a named subtest. End-to-end
// tests use it to keep multi-step flows distinguishable in verbose output.
func Scenario(t *testing.T, name string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Scenario: "+name, fn)
}
