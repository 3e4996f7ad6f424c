package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultHashCost = 10

// ErrPasswordTooLong is returned by Hash for inputs bcrypt cannot take.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// BcryptHasher hashes with a cost looked up on every call, so a changed
// SALT_ROUNDS value applies to the next hash without a restart.
type BcryptHasher struct {
	cost func() int
}

func NewBcryptHasher(cost func() int) *BcryptHasher {
	if cost == nil {
		cost = func() int { return DefaultHashCost }
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.cost()
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is a
// mismatch.
func (h *BcryptHasher) Verify(plaintext string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
