package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/middleware"
	"github.com/99minutos/auth-service/internal/core/domain"
)

type stubUserService struct {
	profileFn        func(ctx context.Context, userID string) (*domain.User, error)
	updateProfileFn  func(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error)
	changePasswordFn func(ctx context.Context, userID, current, next string) error
	setActiveFn      func(ctx context.Context, userID string, active bool) error
}

func (s *stubUserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, patch)
}

func (s *stubUserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	return s.changePasswordFn(ctx, userID, current, next)
}

func (s *stubUserService) SetActive(ctx context.Context, userID string, active bool) error {
	return s.setActiveFn(ctx, userID, active)
}

func withUser(c echo.Context, u *domain.User) echo.Context {
	c.Set(middleware.UserKey, u)
	return c
}

func TestUserHandler_Me(t *testing.T) {
	stub := &stubUserService{
		profileFn: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID != "u1" {
				t.Fatalf("unexpected id %q", userID)
			}
			return &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"}, nil
		},
	}

	c, rec := newJSONContext(http.MethodGet, "/v1/users/me", "")
	if err := NewUserHandler(stub).Me(withUser(c, &domain.User{ID: "u1"})); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "alice@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Me_WithoutUser(t *testing.T) {
	c, _ := newJSONContext(http.MethodGet, "/v1/users/me", "")
	if err := NewUserHandler(&stubUserService{}).Me(c); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestUserHandler_UpdateMe(t *testing.T) {
	stub := &stubUserService{
		updateProfileFn: func(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
			if patch.Email == nil || *patch.Email != "new@example.com" {
				t.Fatalf("email not forwarded: %+v", patch)
			}
			if patch.Nickname != nil || patch.Username != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			if patch.ExpectedVersion != 3 {
				t.Fatalf("expected version not forwarded: %d", patch.ExpectedVersion)
			}
			return &domain.User{ID: userID, Email: *patch.Email, Version: 4}, nil
		},
	}

	c, rec := newJSONContext(http.MethodPatch, "/v1/users/me", `{"email":"new@example.com","expected_version":3}`)
	if err := NewUserHandler(stub).UpdateMe(withUser(c, &domain.User{ID: "u1"})); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_UpdateMe_BadAvatar(t *testing.T) {
	stub := &stubUserService{
		updateProfileFn: func(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	c, _ := newJSONContext(http.MethodPatch, "/v1/users/me", `{"avatar_url":"not a url"}`)
	err := NewUserHandler(stub).UpdateMe(withUser(c, &domain.User{ID: "u1"}))

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserHandler_ChangePassword(t *testing.T) {
	stub := &stubUserService{
		changePasswordFn: func(ctx context.Context, userID, current, next string) error {
			if userID != "u1" || current != "old-secret" || next != "new-secret" {
				t.Fatalf("unexpected args: %s %s %s", userID, current, next)
			}
			return nil
		},
	}

	c, rec := newJSONContext(http.MethodPut, "/v1/users/me/password", `{"current_password":"old-secret","new_password":"new-secret"}`)
	if err := NewUserHandler(stub).ChangePassword(withUser(c, &domain.User{ID: "u1"})); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAdminHandler_SetActive(t *testing.T) {
	var got []bool
	stub := &stubUserService{
		setActiveFn: func(ctx context.Context, userID string, active bool) error {
			if userID != "u42" {
				return domain.ErrUserNotFound
			}
			got = append(got, active)
			return nil
		},
	}
	handler := NewAdminHandler(stub)

	for _, fn := range []echo.HandlerFunc{handler.Deactivate, handler.Activate} {
		c, rec := newJSONContext(http.MethodPost, "/", "")
		c.SetParamNames("id")
		c.SetParamValues("u42")
		if err := fn(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	}
	if len(got) != 2 || got[0] || !got[1] {
		t.Fatalf("unexpected calls: %v", got)
	}

	c, _ := newJSONContext(http.MethodPost, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := handler.Deactivate(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := DependencyCheck{Name: "mongodb", Ping: func(ctx context.Context) error { return nil }}
	down := DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error { return errors.New("connection refused") }}

	c, rec := newJSONContext(http.MethodGet, "/health/ready", "")
	if err := NewHealthHandler(ok).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newJSONContext(http.MethodGet, "/health/ready", "")
	if err := NewHealthHandler(ok, down).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Dependencies["redis"].Status != "unhealthy" || resp.Dependencies["mongodb"].Status != "ok" {
		t.Fatalf("unexpected dependencies: %+v", resp.Dependencies)
	}
}
