package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

// UserService handles profile maintenance for existing accounts.
type UserService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	validate *validator.Validate
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, validate: validator.New(), log: log}
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies patch. The username may be echoed back unchanged but
// never altered; email changes are normalised and rechecked for uniqueness by
// the store.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	if patch.Username != nil {
		current, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if *patch.Username != current.Username {
			return nil, domain.ErrUsernameImmutable
		}
		patch.Username = nil
	}
	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		if err := s.validate.Var(email, "required,email,max=254"); err != nil {
			return nil, domain.ErrInvalidEmail
		}
		patch.Email = &email
	}
	if patch.Nickname != nil {
		nick := strings.TrimSpace(*patch.Nickname)
		patch.Nickname = &nick
	}
	if patch.Empty() {
		return s.users.FindByID(ctx, userID)
	}

	updated, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Int64("version", updated.Version).Msg("profile updated")
	return updated, nil
}

// ChangePassword replaces the stored hash after re-verifying the current password.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}
	if current == next {
		return domain.ErrSamePassword
	}
	if err := checkPasswordPolicy(next); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.users.SetPasswordHash(ctx, userID, hash); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// SetActive enables or soft-disables an account. Disabled accounts fail both
// login and token verification.
func (s *UserService) SetActive(ctx context.Context, userID string, active bool) error {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Bool("active", active).Msg("account status changed")
	return nil
}
