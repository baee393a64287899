package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenConfig carries token lifetimes. A non-nil Ledger turns on refresh
// rotation: each refresh token can be exchanged once and is replaced.
type TokenConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Ledger     ports.RefreshLedger
}

// TokenService issues access/refresh pairs and verifies presented tokens
// against the expected type and the subject's current account state.
type TokenService struct {
	codec      ports.TokenCodec
	users      ports.UserRepository
	ledger     ports.RefreshLedger
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

func NewTokenService(codec ports.TokenCodec, users ports.UserRepository, cfg TokenConfig, log zerolog.Logger) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		codec:      codec,
		users:      users,
		ledger:     cfg.Ledger,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		log:        log,
	}
}

// IssuePair mints a fresh access and refresh token for username. It never
// touches the store.
func (s *TokenService) IssuePair(username string) (*domain.TokenPair, error) {
	access, accessClaims, err := s.codec.Encode(username, domain.TokenAccess, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, refreshClaims, err := s.codec.Encode(username, domain.TokenRefresh, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessClaims.ExpiresAt,
		RefreshExpiresAt: refreshClaims.ExpiresAt,
	}, nil
}

// Verify decodes token, checks it is of the expected type and that its
// subject still exists and is active.
func (s *TokenService) Verify(ctx context.Context, token string, expected domain.TokenType) (*domain.User, error) {
	user, _, err := s.verify(ctx, token, expected)
	return user, err
}

// Refresh exchanges a valid refresh token for a new access token. Without a
// ledger the presented refresh token is handed back unchanged and stays usable
// until it expires.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	user, claims, err := s.verify(ctx, refreshToken, domain.TokenRefresh)
	if err != nil {
		return nil, err
	}

	if s.ledger == nil {
		access, accessClaims, err := s.codec.Encode(user.Username, domain.TokenAccess, s.accessTTL)
		if err != nil {
			return nil, fmt.Errorf("issue access token: %w", err)
		}
		return &domain.TokenPair{
			AccessToken:      access,
			RefreshToken:     refreshToken,
			AccessExpiresAt:  accessClaims.ExpiresAt,
			RefreshExpiresAt: claims.ExpiresAt,
		}, nil
	}

	fresh, err := s.ledger.Consume(ctx, claims.ID, claims.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}
	if !fresh {
		s.log.Warn().Str("username", user.Username).Str("jti", claims.ID).Msg("refresh token reuse rejected")
		return nil, domain.ErrTokenReused
	}
	return s.IssuePair(user.Username)
}

func (s *TokenService) verify(ctx context.Context, token string, expected domain.TokenType) (*domain.User, *domain.TokenClaims, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	claims, err := s.codec.Decode(token)
	if err != nil {
		s.log.Debug().Err(err).Str("expected_type", string(expected)).Msg("token rejected")
		return nil, nil, err
	}
	if claims.Type != expected {
		s.log.Debug().Str("jti", claims.ID).Str("type", string(claims.Type)).Str("expected_type", string(expected)).Msg("token type mismatch")
		return nil, nil, domain.ErrWrongTokenType
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrUnknownSubject
		}
		return nil, nil, fmt.Errorf("verify token: %w", err)
	}
	if !user.Active {
		return nil, nil, domain.ErrAccountDisabled
	}
	return user, claims, nil
}
