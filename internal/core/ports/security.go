package ports

import (
	"context"
	"time"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// PasswordHasher is a salted, deliberately slow one-way transform.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A malformed hash yields
	// false; an empty hash is a caller bug and yields domain.ErrInvalidArgument.
	Verify(plaintext, hash string) (bool, error)
}

// TokenCodec signs and verifies self-contained tokens. Decode checks the
// signature and expiry but never the token type.
type TokenCodec interface {
	Encode(subject string, typ domain.TokenType, ttl time.Duration) (string, *domain.TokenClaims, error)
	Decode(token string) (*domain.TokenClaims, error)
}

// RefreshLedger records consumed refresh token ids when rotation is enabled.
type RefreshLedger interface {
	// Consume marks id as used until expiresAt. It returns false if id was
	// already consumed.
	Consume(ctx context.Context, id string, expiresAt time.Time) (bool, error)
}
