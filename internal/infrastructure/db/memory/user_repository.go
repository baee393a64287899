// Package memory provides a process-local UserRepository. Uniqueness checks and
// inserts happen under one lock, so it honours the same guarantees as the
// Mongo unique indexes. Used by STORE_DRIVER=memory and by tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/auth-service/internal/core/domain"
)

type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*domain.User
	byUsername map[string]string
	byEmail    map[string]string
	now        func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
		now:        time.Now,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return nil, domain.ErrDuplicateUsername
	}
	if _, taken := r.byEmail[user.Email]; taken {
		return nil, domain.ErrDuplicateEmail
	}

	now := r.now().UTC()
	stored := clone(user)
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Version = 1

	r.byID[stored.ID] = stored
	r.byUsername[stored.Username] = stored.ID
	r.byEmail[stored.Email] = stored.ID
	return clone(stored), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byUsername[username])
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byEmail[email])
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.ExpectedVersion != 0 && patch.ExpectedVersion != u.Version {
		return nil, domain.ErrVersionConflict
	}
	if patch.Username != nil && *patch.Username != u.Username {
		if _, taken := r.byUsername[*patch.Username]; taken {
			return nil, domain.ErrDuplicateUsername
		}
	}
	if patch.Email != nil && *patch.Email != u.Email {
		if _, taken := r.byEmail[*patch.Email]; taken {
			return nil, domain.ErrDuplicateEmail
		}
	}

	if patch.Username != nil && *patch.Username != u.Username {
		delete(r.byUsername, u.Username)
		u.Username = *patch.Username
		r.byUsername[u.Username] = id
	}
	if patch.Email != nil && *patch.Email != u.Email {
		delete(r.byEmail, u.Email)
		u.Email = *patch.Email
		r.byEmail[u.Email] = id
	}
	if patch.Nickname != nil {
		u.Nickname = *patch.Nickname
	}
	if patch.AvatarURL != nil {
		u.AvatarURL = *patch.AvatarURL
	}
	r.touch(u)
	return clone(u), nil
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	return r.mutate(ctx, id, func(u *domain.User) { u.PasswordHash = hash })
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.mutate(ctx, id, func(u *domain.User) { u.Active = active })
}

func (r *UserRepository) mutate(ctx context.Context, id string, fn func(*domain.User)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(u)
	r.touch(u)
	return nil
}

func (r *UserRepository) touch(u *domain.User) {
	u.UpdatedAt = r.now().UTC()
	u.Version++
}

// lookup must be called with r.mu held.
func (r *UserRepository) lookup(id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func clone(u *domain.User) *domain.User {
	c := *u
	return &c
}
