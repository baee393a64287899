package handler

import (
	"time"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Request types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Nickname string `json:"nickname" validate:"omitempty,max=64"`
}

// loginRequest.Username also accepts an email address.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type updateProfileRequest struct {
	Username        *string `json:"username"         validate:"omitempty"`
	Email           *string `json:"email"            validate:"omitempty,email,max=254"`
	Nickname        *string `json:"nickname"         validate:"omitempty,max=64"`
	AvatarURL       *string `json:"avatar_url"       validate:"omitempty,url,max=2048"`
	ExpectedVersion int64   `json:"expected_version" validate:"gte=0"`
}

func (r updateProfileRequest) toPatch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Username:        r.Username,
		Email:           r.Email,
		Nickname:        r.Nickname,
		AvatarURL:       r.AvatarURL,
		ExpectedVersion: r.ExpectedVersion,
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6,max=72"`
}

// --- Response types ---

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func newTokenResponse(pair *domain.TokenPair, now time.Time) tokenResponse {
	expiresIn := int64(pair.AccessExpiresAt.Sub(now).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    expiresIn,
	}
}
