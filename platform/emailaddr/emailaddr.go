// Package emailaddr is the single normalization boundary for email identity.
// Every component that reads or writes an email address goes through Normalize,
// so two accounts can never exist for addresses differing only in case.
package emailaddr

import "strings"

// Normalize lowercases and trims an email address.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Equal reports whether two addresses identify the same account.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
