package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/infrastructure/db/memory"
	"github.com/99minutos/auth-service/internal/infrastructure/security"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	repo   *memory.UserRepository
	codec  *security.JWTCodec
	hasher *security.BcryptHasher
	clock  *fakeClock
	tokens *TokenService
	auth   *AuthService
	users  *UserService
}

func newFixture(t *testing.T, cfg TokenConfig) *fixture {
	t.Helper()

	clock := newFakeClock()
	codec, err := security.NewJWTCodec([]byte(strings.Repeat("x", 32)), "auth-service-test", security.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	repo := memory.NewUserRepository()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	tokens := NewTokenService(codec, repo, cfg, zerolog.Nop())

	return &fixture{
		repo:   repo,
		codec:  codec,
		hasher: hasher,
		clock:  clock,
		tokens: tokens,
		auth:   NewAuthService(repo, hasher, tokens, zerolog.Nop()),
		users:  NewUserService(repo, hasher, zerolog.Nop()),
	}
}

func (f *fixture) register(t *testing.T, username, email, password string) *domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), ports.RegisterInput{Username: username, Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func ptr[T any](v T) *T { return &v }
