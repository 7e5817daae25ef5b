package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the lowercase hex SHA-256 digest of the UTF-8 bytes of
// password. The same input always yields the same digest.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// HashPasswordStrong returns a bcrypt hash of password.
func HashPasswordStrong(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether password matches stored. Stored values in
// bcrypt format are checked with bcrypt; anything else is treated as a hex
// SHA-256 digest and compared case-insensitively.
func VerifyPassword(password, stored string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	want := strings.ToLower(stored)
	got := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
