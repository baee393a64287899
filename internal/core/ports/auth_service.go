package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Nickname string
}

// AuthService drives register, login, refresh and per-request authentication.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login accepts a username or an email address as identifier.
	Login(ctx context.Context, identifier, password string) (*domain.TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// TokenService issues and verifies token pairs.
type TokenService interface {
	IssuePair(username string) (*domain.TokenPair, error)
	Verify(ctx context.Context, token string, expected domain.TokenType) (*domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}
