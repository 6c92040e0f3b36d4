// Package hash implements the shared credential digest. The digest must
// match the one computed by the browser clients byte for byte, since some
// deployments hash client-side and compare against a stored server hash.
package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf16"

	"extynct-community/internal/model"
)

// Hash digests a plaintext password to lowercase SHA-256 hex.
func Hash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

const fallbackPrefix = "fallback-"

// IsFallback reports whether a stored digest came from the degraded
// client-side path that runs when SubtleCrypto is unavailable. Those
// digests are reversible-strength and must never verify successfully.
func IsFallback(digest string) bool {
	return strings.HasPrefix(digest, fallbackPrefix)
}

// FallbackDigest reproduces the degraded client checksum. It exists so
// stored legacy records can be recognized in tests; new digests are never
// produced through it.
func FallbackDigest(password string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(password)) {
		h = (h << 5) - h + int32(unit)
	}
	if h < 0 {
		h = -h
	}
	return fallbackPrefix + strconv.FormatInt(int64(h), 10)
}

// Verify compares a plaintext password against a stored digest. A stored
// fallback digest always fails with model.ErrLegacyDigest so the weak
// checksum cannot masquerade as a primary hash.
func Verify(password, stored string) error {
	if IsFallback(stored) {
		return model.ErrLegacyDigest
	}
	computed := Hash(password)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) != 1 {
		return model.ErrIncorrectPassword
	}
	return nil
}
