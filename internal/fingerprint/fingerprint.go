// Package fingerprint derives the stored representations of an identity
// number. The raw number is never persisted; only its last four digits and a
// salted one-way digest of the canonical digits-only form.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DefaultSalt is used when no SSN_SALT is configured. Demo deployments only.
const DefaultSalt = "forward-demo-ssn-salt-change-in-prod"

// Normalize strips every non-digit rune.
func Normalize(identity string) string {
	var b strings.Builder
	b.Grow(len(identity))
	for _, r := range identity {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LastFour returns the last four digits of the canonical form.
func LastFour(identity string) string {
	digits := Normalize(identity)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// Hasher computes salted fingerprints.
type Hasher struct {
	salt string
}

// NewHasher builds a Hasher; an empty salt falls back to DefaultSalt.
func NewHasher(salt string) Hasher {
	if salt == "" {
		salt = DefaultSalt
	}
	return Hasher{salt: salt}
}

// Fingerprint returns hex(sha256(salt || digits)).
func (h Hasher) Fingerprint(identity string) string {
	sum := sha256.Sum256([]byte(h.salt + Normalize(identity)))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether identity derives exactly the stored last-4 and
// fingerprint.
func (h Hasher) Matches(identity, storedLastFour, storedFingerprint string) bool {
	return LastFour(identity) == storedLastFour && h.Fingerprint(identity) == storedFingerprint
}
