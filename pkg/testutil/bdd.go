// Package testutil holds small shared test helpers.
package testutil

import "testing"

// Given, When, and Then wrap t.Run with a narrative prefix so nested test
// output reads as a scenario. They are plain subtests, nothing more.
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
