package model

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CleanInput trims user input. An empty result means there is nothing to do.
func CleanInput(raw string) string {
	return strings.TrimSpace(raw)
}

// MatchKey returns the comparison key for item text: NFC-normalized, trimmed and
// case-folded. Two texts name the same item iff their keys are equal.
func MatchKey(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return ""
	}
	// Casers keep internal state; build one per call.
	return cases.Fold().String(s)
}

// SameText reports whether a and b name the same item.
func SameText(a, b string) bool {
	return MatchKey(a) == MatchKey(b)
}

// NewItemID returns it-<suffix> where suffix is 8 lowercase base32 chars (40 random bits).
func NewItemID() string {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(err)
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return "it-" + strings.ToLower(enc.EncodeToString(b[:]))
}
