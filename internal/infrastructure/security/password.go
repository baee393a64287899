package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// MaxPasswordBytes is bcrypt's input limit; longer inputs would be truncated
// silently by other implementations, so they are rejected outright.
const MaxPasswordBytes = 72

// BcryptHasher implements ports.PasswordHasher with a tunable work factor.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, clamped to bcrypt's valid range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a salted bcrypt hash of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if err := checkLength(plaintext); err != nil {
		return "", err
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(out), nil
}

// Verify compares plaintext against hash. Mismatches and malformed hashes both
// report false without an error.
func (h *BcryptHasher) Verify(plaintext, hash string) (bool, error) {
	if hash == "" {
		return false, fmt.Errorf("%w: empty password hash", domain.ErrInvalidArgument)
	}
	if len(plaintext) == 0 || len(plaintext) > MaxPasswordBytes {
		return false, nil
	}
	// Mismatch, ErrHashTooShort and version/cost errors all mean "no match".
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil, nil
}

func checkLength(plaintext string) error {
	if len(plaintext) == 0 {
		return fmt.Errorf("%w: password is empty", domain.ErrWeakPassword)
	}
	if len(plaintext) > MaxPasswordBytes {
		return fmt.Errorf("%w: password exceeds %d bytes", domain.ErrWeakPassword, MaxPasswordBytes)
	}
	return nil
}
