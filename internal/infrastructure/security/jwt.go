package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// Codec-level failures. Each wraps its domain kind so that callers above the
// codec only ever match on the domain taxonomy; parser detail is dropped.
var (
	ErrMissingSecret = errors.New("jwt: signing secret is empty")
	ErrSignature     = fmt.Errorf("jwt: %w", domain.ErrInvalidSignature)
	ErrMalformed     = fmt.Errorf("jwt: %w", domain.ErrTokenMalformed)
	ErrExpired       = fmt.Errorf("jwt: %w", domain.ErrTokenExpired)
)

// JWTCodec implements ports.TokenCodec with HS256-signed JWTs whose payload is
// {sub, type, iss, iat, exp, jti}. It holds only immutable state and is safe
// for concurrent use.
type JWTCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// JWTOption customises a JWTCodec.
type JWTOption func(*JWTCodec)

// WithClock overrides the time source; tests use it to step past expiry.
func WithClock(now func() time.Time) JWTOption {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec builds a codec signing with secret. The secret is copied.
func NewJWTCodec(secret []byte, issuer string, opts ...JWTOption) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	c := &JWTCodec{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type jwtClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Encode signs a token for subject. Claims carry whole seconds: iat is
// truncated and exp is rounded up, so the token stays valid for at least ttl
// of wall time.
func (c *JWTCodec) Encode(subject string, typ domain.TokenType, ttl time.Duration) (string, *domain.TokenClaims, error) {
	if subject == "" || !typ.Valid() || ttl <= 0 {
		return "", nil, fmt.Errorf("%w: encode %q token for %q with ttl %s", domain.ErrInvalidArgument, typ, subject, ttl)
	}

	now := c.now().UTC()
	issued := now.Truncate(time.Second)
	expires := now.Add(ttl)
	if whole := expires.Truncate(time.Second); !whole.Equal(expires) {
		expires = whole.Add(time.Second)
	}
	claims := jwtClaims{
		Type: string(typ),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("jwt sign: %w", err)
	}
	return signed, toDomainClaims(&claims), nil
}

// Decode verifies the signature, then expiry. The token type is returned as
// found and left for the caller to check.
func (c *JWTCodec) Decode(token string) (*domain.TokenClaims, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
	)
	if err != nil {
		return nil, classify(err)
	}
	if claims.Subject == "" || claims.ID == "" || claims.IssuedAt == nil {
		return nil, ErrMalformed
	}
	return toDomainClaims(claims), nil
}

// classify collapses jwt parser errors into the three codec outcomes. The
// parser verifies the signature before it validates any claim.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}

func toDomainClaims(c *jwtClaims) *domain.TokenClaims {
	out := &domain.TokenClaims{
		ID:      c.ID,
		Subject: c.Subject,
		Type:    domain.TokenType(c.Type),
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return out
}
