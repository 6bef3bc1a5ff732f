package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-directory/internal/api/dto"
	"github.com/spec-kit/user-directory/internal/service"
	apperrors "github.com/spec-kit/user-directory/pkg/util"
)

// AuthHandler exposes the login boundary.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{auth: authService, users: userService}
}

// Login handles POST /cf/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	profile, token, err := h.auth.Authenticate(c.Context(), req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPrincipal):
			return apperrors.NewConflict("user not found", nil)
		case errors.Is(err, service.ErrBadSecret):
			return apperrors.NewForbidden("invalid password")
		default:
			return apperrors.NewInternalError(err)
		}
	}

	if h.users != nil {
		h.users.NotifyLogin(c.Context(), profile)
	}

	return c.JSON(dto.AuthResponse{Profile: *profile, Token: token})
}
