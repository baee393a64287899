package service

import (
	"context"
	"errors"
	"testing"

	"github.com/99minutos/auth-service/internal/core/domain"
)

func TestUserService_UpdateProfile(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com", "pass123")

	updated, err := f.users.UpdateProfile(ctx, alice.ID, domain.ProfilePatch{
		Username:  ptr("alice"),
		Email:     ptr(" Alice@New.example "),
		Nickname:  ptr("  Al "),
		AvatarURL: ptr("https://cdn.example/a.png"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Email != "alice@new.example" || updated.Nickname != "Al" || updated.AvatarURL != "https://cdn.example/a.png" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	if updated.Version != alice.Version+1 {
		t.Fatalf("version not bumped: %d", updated.Version)
	}

	if _, _, err := f.auth.Login(ctx, "alice@new.example", "pass123"); err != nil {
		t.Fatalf("login with new email: %v", err)
	}
}

func TestUserService_UpdateProfile_Rejects(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com", "pass123")
	f.register(t, "bob", "bob@example.com", "pass123")

	tests := []struct {
		name  string
		patch domain.ProfilePatch
		want  error
	}{
		{"rename", domain.ProfilePatch{Username: ptr("alicia")}, domain.ErrUsernameImmutable},
		{"bad email", domain.ProfilePatch{Email: ptr("nope")}, domain.ErrInvalidEmail},
		{"taken email", domain.ProfilePatch{Email: ptr("BOB@example.com")}, domain.ErrDuplicateEmail},
		{"stale version", domain.ProfilePatch{Nickname: ptr("A"), ExpectedVersion: 99}, domain.ErrVersionConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.users.UpdateProfile(ctx, alice.ID, tt.patch); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := f.users.UpdateProfile(ctx, "missing", domain.ProfilePatch{Nickname: ptr("x")}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile_EmptyPatch(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	alice := f.register(t, "alice", "alice@example.com", "pass123")

	got, err := f.users.UpdateProfile(context.Background(), alice.ID, domain.ProfilePatch{})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Version != alice.Version {
		t.Fatalf("empty patch must not write")
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com", "pass123")

	if err := f.users.ChangePassword(ctx, alice.ID, "wrong-pass", "newpass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := f.users.ChangePassword(ctx, alice.ID, "pass123", "pass123"); !errors.Is(err, domain.ErrSamePassword) {
		t.Fatalf("expected ErrSamePassword, got %v", err)
	}
	if err := f.users.ChangePassword(ctx, alice.ID, "pass123", "short"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if err := f.users.ChangePassword(ctx, alice.ID, "pass123", "newpass1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := f.auth.Login(ctx, "alice", "pass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, _, err := f.auth.Login(ctx, "alice", "newpass1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUserService_SetActive(t *testing.T) {
	f := newFixture(t, TokenConfig{})
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com", "pass123")

	if err := f.users.SetActive(ctx, alice.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	got, err := f.users.Profile(ctx, alice.ID)
	if err != nil || got.Active {
		t.Fatalf("expected inactive profile, got %+v (%v)", got, err)
	}
	if err := f.users.SetActive(ctx, "missing", true); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
