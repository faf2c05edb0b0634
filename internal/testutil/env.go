// Package testutil holds helpers shared by package tests.
package testutil

import (
	"io"
	"os"
	"testing"

	"aashub/internal/system"
)

// WithEnv sets key to val for the test scope; an empty val unsets it.
// The returned func restores the previous value.
func WithEnv(t *testing.T, key, val string) func() {
	t.Helper()
	old, had := os.LookupEnv(key)
	if val == "" {
		_ = os.Unsetenv(key)
	} else {
		_ = os.Setenv(key, val)
	}
	return func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	}
}

// Quiet silences the shared logger until the test ends.
func Quiet(t *testing.T) {
	t.Helper()
	system.Logger.SetOutput(io.Discard)
	t.Cleanup(func() { system.Logger.SetOutput(os.Stderr) })
}
