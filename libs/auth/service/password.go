package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is bcrypt's input limit in bytes; longer passwords are truncated before hashing
const MaxPasswordLength = 72

// PasswordHasher hashes and verifies passwords with bcrypt
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost, falling back to bcrypt.DefaultCost
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of the (truncated) password. An empty password is hashed as is.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plain matches hash. Malformed hashes simply do not match.
func (h *PasswordHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(plain)) == nil
}

func truncatePassword(password string) []byte {
	pw := []byte(password)
	if len(pw) > MaxPasswordLength {
		pw = pw[:MaxPasswordLength]
	}
	return pw
}
