package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// UserService covers profile reads and writes for an authenticated user and
// the admin-only activation switch.
type UserService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	SetActive(ctx context.Context, userID string, active bool) error
}
