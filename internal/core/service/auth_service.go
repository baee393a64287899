package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

const minPasswordLen = 6

// timingPassword is hashed once at construction; logins for unknown users are
// compared against it so they cost the same as a wrong password.
const timingPassword = "timing-equaliser-not-a-credential"

// AuthService implements registration, login, refresh and per-request
// authentication on top of the token service and the user store.
type AuthService struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenService
	validate  *validator.Validate
	dummyHash string
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	dummy, err := hasher.Hash(timingPassword)
	if err != nil {
		log.Warn().Err(err).Msg("could not precompute timing hash")
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validate:  validator.New(),
		dummyHash: dummy,
		log:       log,
	}
}

// Register creates an active, non-admin account. Uniqueness is left entirely
// to the store so that concurrent registrations cannot both succeed.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if !domain.ValidUsername(in.Username) {
		return nil, domain.ErrInvalidUsername
	}
	email, err := s.normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPasswordPolicy(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        email,
		Nickname:     strings.TrimSpace(in.Nickname),
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login authenticates by username or email and issues a token pair. Unknown
// identifiers and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.TokenPair, *domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.FindByEmail(ctx, domain.NormalizeEmail(identifier))
	} else {
		user, err = s.users.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.burnHash(password)
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.log.Info().Str("username", user.Username).Msg("login rejected: bad password")
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		s.log.Info().Str("username", user.Username).Msg("login rejected: account disabled")
		return nil, nil, domain.ErrAccountDisabled
	}

	pair, err := s.tokens.IssuePair(user.Username)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	return pair, user, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}

// Authenticate resolves the user behind an access token.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	return s.tokens.Verify(ctx, accessToken, domain.TokenAccess)
}

func (s *AuthService) normalizeEmail(raw string) (string, error) {
	email := domain.NormalizeEmail(raw)
	if err := s.validate.Var(email, "required,email,max=254"); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func (s *AuthService) burnHash(password string) {
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify(password, s.dummyHash)
}

func checkPasswordPolicy(pw string) error {
	if len(pw) < minPasswordLen {
		return fmt.Errorf("%w: at least %d characters required", domain.ErrWeakPassword, minPasswordLen)
	}
	return nil
}
