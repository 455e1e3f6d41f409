package keygen

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
)

const keyBytes = 32

// NewKey returns a random URL-safe API key.
func NewKey() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Compare reports whether the provided key equals the expected one.
// The comparison runs in constant time to avoid timing side-channels
// on the API key.
func Compare(provided, expected string) bool {
	// ConstantTimeCompare returns early on length mismatch, which leaks
	// only the key length, not its content.
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

// Truncate returns a short prefix of the key safe to print in logs.
func Truncate(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "..."
}
