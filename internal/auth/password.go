package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost mirrors the work factor the journal has always used for
// stored password hashes.
const bcryptCost = 12

// HashPassword hashes one plaintext password for persistent storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword verifies a plaintext candidate against a bcrypt hash.
func VerifyPassword(passwordHash, candidate string) bool {
	if strings.TrimSpace(passwordHash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(candidate)) == nil
}
