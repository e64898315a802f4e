// Package invite generates and normalizes house invite codes.
//
// Codes are short, human-enterable tokens: six uppercase alphanumeric
// characters drawn from crypto/rand. Uniqueness is enforced by the houses
// table, not here; a collision surfaces as a constraint violation and the
// caller re-invokes the whole create flow for a fresh code.
package invite

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	// CodeLength is the fixed length of every invite code.
	CodeLength = 6

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewCode returns a fresh random invite code.
func NewCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}

// Normalize prepares a user-entered code for lookup. Codes are compared
// case-insensitively, so both generation and lookup go through uppercase.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
