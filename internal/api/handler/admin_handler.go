package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

// AdminHandler exposes account switches reserved for administrators. Routes
// must sit behind middleware.AdminOnly.
type AdminHandler struct {
	service ports.UserService
}

func NewAdminHandler(service ports.UserService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Deactivate soft-disables an account.
//
// @Summary      Deactivate a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id}/deactivate [post]
func (h *AdminHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

// Activate re-enables an account.
//
// @Summary      Activate a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id}/activate [post]
func (h *AdminHandler) Activate(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *AdminHandler) setActive(c echo.Context, active bool) error {
	id := c.Param("id")
	if id == "" {
		return domain.ErrUserNotFound
	}
	if err := h.service.SetActive(c.Request().Context(), id, active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
