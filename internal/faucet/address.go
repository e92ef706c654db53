package faucet

import (
	"regexp"
	"strings"
)

// TON user-friendly address: bounceable (EQ) or non-bounceable (UQ) prefix
// followed by 46 base64url characters, 48 characters total.
var addressPattern = regexp.MustCompile(`^(EQ|UQ)[A-Za-z0-9_-]{46}$`)

// NormalizeAddress trims surrounding whitespace and strips internal spaces
// that wallets sometimes insert when copying.
func NormalizeAddress(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
}

// ValidAddress reports whether addr is a well-formed TON address. Callers
// normalize first.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}
