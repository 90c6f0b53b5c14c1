package domain

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest admin password accepted on reset.
const MinPasswordLength = 4

const passwordCost = 12

// AdminStatus reports whether an admin password is configured and whether it
// is still the seeded default.
type AdminStatus struct {
	Exists    bool `json:"exists"`
	IsDefault bool `json:"isDefault"`
}

// HashPassword validates and hashes plaintext with bcrypt.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrPasswordRequired
	}
	if len(plaintext) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches hash. A malformed hash is
// treated as a mismatch.
func CheckPassword(hash, plaintext string) bool {
	if hash == "" || plaintext == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
