package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/core/domain"
)

// UserKey is the echo context key under which Auth stores the resolved user.
const UserKey = "user"

// Authenticator resolves the account behind an access token.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// Auth validates the bearer access token and injects the user into context.
// Disabled accounts are reported as a plain invalid token.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				challenge(c, "")
				return err
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			metrics.TokenVerificationsTotal.WithLabelValues(string(domain.TokenAccess), metrics.TokenResult(err)).Inc()
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					challenge(c, "token expired")
					return err
				case errors.Is(err, domain.ErrAccountDisabled):
					challenge(c, "")
					return domain.ErrTokenInvalid
				case errors.Is(err, domain.ErrTokenInvalid):
					challenge(c, "")
				}
				return err
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserKey).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return token, nil
}

func challenge(c echo.Context, description string) {
	value := `Bearer error="invalid_token"`
	if description != "" {
		value += `, error_description="` + description + `"`
	}
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, value)
}
