package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// UserRepository persists user records. Implementations must enforce username
// and email uniqueness atomically and report conflicts as
// domain.ErrDuplicateUsername / domain.ErrDuplicateEmail.
type UserRepository interface {
	// Create stores a new user and returns it with ID, timestamps and version set.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile applies patch, bumps version and updated_at, and returns the
	// stored result. A non-zero patch.ExpectedVersion that does not match yields
	// domain.ErrVersionConflict.
	UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.User, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	SetActive(ctx context.Context, id string, active bool) error
}
