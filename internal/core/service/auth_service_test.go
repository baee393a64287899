package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

func TestAuthService_Register_Success(t *testing.T) {
	f := newFixture(t, TokenConfig{})

	user := f.register(t, "alice", "  Alice@Example.COM ", "pass123")

	if user.ID == "" {
		t.Fatalf("expected an id")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalised: %q", user.Email)
	}
	if !user.Active || user.IsAdmin {
		t.Fatalf("new accounts are active non-admins: %+v", user)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	ok, err := f.hasher.Verify("pass123", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	ctx := context.Background()

	tests := []struct {
		name string
		in   ports.RegisterInput
		want error
	}{
		{"short username", ports.RegisterInput{Username: "al", Email: "a@x.com", Password: "pass123"}, domain.ErrInvalidUsername},
		{"username with space", ports.RegisterInput{Username: "al ice", Email: "a@x.com", Password: "pass123"}, domain.ErrInvalidUsername},
		{"bad email", ports.RegisterInput{Username: "alice", Email: "not-an-email", Password: "pass123"}, domain.ErrInvalidEmail},
		{"empty email", ports.RegisterInput{Username: "alice", Email: "  ", Password: "pass123"}, domain.ErrInvalidEmail},
		{"short password", ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "12345"}, domain.ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.auth.Register(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	ctx := context.Background()
	f.register(t, "alice", "alice@example.com", "pass123")

	_, err := f.auth.Register(ctx, ports.RegisterInput{Username: "alice", Email: "other@example.com", Password: "pass123"})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	_, err = f.auth.Register(ctx, ports.RegisterInput{Username: "bob", Email: "ALICE@example.com", Password: "pass123"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Register_ConcurrentSameUsername(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	const attempts = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dupes   int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.auth.Register(context.Background(), ports.RegisterInput{
				Username: "alice",
				Email:    fmt.Sprintf("alice%d@example.com", i),
				Password: "pass123",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, domain.ErrDuplicateUsername):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if created != 1 || dupes != attempts-1 {
		t.Fatalf("expected exactly one winner, got created=%d dupes=%d", created, dupes)
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com", "pass123")

	for _, identifier := range []string{"alice", "alice@example.com", " Alice@Example.com "} {
		pair, user, err := f.auth.Login(ctx, identifier, "pass123")
		if err != nil {
			t.Fatalf("login with %q: %v", identifier, err)
		}
		if user.ID != alice.ID {
			t.Fatalf("login with %q resolved %s", identifier, user.ID)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" || pair.AccessToken == pair.RefreshToken {
			t.Fatalf("unexpected pair: %+v", pair)
		}
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	ctx := context.Background()
	f.register(t, "alice", "alice@example.com", "pass123")

	cases := []struct{ identifier, password string }{
		{"alice", "wrong-pass"},
		{"ghost", "pass123"},
		{"ghost@example.com", "pass123"},
		{"", "pass123"},
		{"alice", ""},
	}
	for _, tc := range cases {
		if _, _, err := f.auth.Login(ctx, tc.identifier, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("login(%q, %q): expected ErrInvalidCredentials, got %v", tc.identifier, tc.password, err)
		}
	}
}

// Register, log in, get deactivated: the old access token and a fresh login
// both stop working.
func TestAuthService_DeactivatedAccount(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com", "s3cret!")

	pair, _, err := f.auth.Login(ctx, "alice", "s3cret!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, err := f.auth.Login(ctx, "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	user, err := f.auth.Authenticate(ctx, pair.AccessToken)
	if err != nil || user.Username != "alice" {
		t.Fatalf("authenticate: %v", err)
	}

	if err := f.users.SetActive(ctx, alice.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := f.auth.Authenticate(ctx, pair.AccessToken); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
	if _, _, err := f.auth.Login(ctx, "alice", "s3cret!"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled on login, got %v", err)
	}
	// A wrong password on a disabled account still reads as bad credentials.
	if _, _, err := f.auth.Login(ctx, "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
