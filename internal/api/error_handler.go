package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/api/handler"
	"github.com/99minutos/auth-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type apiError struct {
	status int
	code   string
	msg    string
}

// Ordered: specific token kinds before the ErrTokenInvalid class, and the
// refresh-specific expiry before the generic one.
var domainErrors = []struct {
	target error
	apiError
}{
	{handler.ErrBadPayload, apiError{http.StatusBadRequest, "bad_request", "invalid payload"}},
	{domain.ErrInvalidCredentials, apiError{http.StatusUnauthorized, "invalid_credentials", "invalid credentials"}},
	{domain.ErrAccountDisabled, apiError{http.StatusForbidden, "account_disabled", "account disabled"}},
	{handler.ErrRefreshExpired, apiError{http.StatusUnauthorized, "refresh_expired", "refresh token expired, log in again"}},
	{domain.ErrTokenExpired, apiError{http.StatusUnauthorized, "token_expired", "access token expired"}},
	{domain.ErrTokenInvalid, apiError{http.StatusUnauthorized, "invalid_token", "invalid token"}},
	{domain.ErrForbidden, apiError{http.StatusForbidden, "forbidden", "access forbidden"}},
	{domain.ErrDuplicateUsername, apiError{http.StatusConflict, "duplicate_username", "username already taken"}},
	{domain.ErrDuplicateEmail, apiError{http.StatusConflict, "duplicate_email", "email already registered"}},
	{domain.ErrVersionConflict, apiError{http.StatusConflict, "version_conflict", "user was modified concurrently"}},
	{domain.ErrUserNotFound, apiError{http.StatusNotFound, "user_not_found", "user not found"}},
	{domain.ErrUsernameImmutable, apiError{http.StatusUnprocessableEntity, "username_immutable", "username cannot be changed"}},
	{domain.ErrInvalidUsername, apiError{http.StatusUnprocessableEntity, "invalid_username", ""}},
	{domain.ErrInvalidEmail, apiError{http.StatusUnprocessableEntity, "invalid_email", ""}},
	{domain.ErrWeakPassword, apiError{http.StatusUnprocessableEntity, "weak_password", ""}},
	{domain.ErrSamePassword, apiError{http.StatusUnprocessableEntity, "same_password", ""}},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and a stable code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<code>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ae := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(ae.status)
			return
		}
		_ = c.JSON(ae.status, errorResponse{Error: ae.msg, Code: ae.code})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) apiError {
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return apiError{http.StatusUnprocessableEntity, "validation_failed", ve.Error()}
	}

	for _, de := range domainErrors {
		if errors.Is(err, de.target) {
			out := de.apiError
			if out.msg == "" {
				out.msg = err.Error()
			}
			return out
		}
	}

	// Echo's own errors (router 404/405, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return apiError{he.Code, codeForStatus(he.Code), fmt.Sprintf("%v", he.Message)}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return apiError{http.StatusInternalServerError, "internal", "internal server error"}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		if status >= 500 {
			return "internal"
		}
		return "error"
	}
}
