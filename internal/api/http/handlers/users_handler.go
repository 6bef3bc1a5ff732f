package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-directory/internal/api/dto"
	"github.com/spec-kit/user-directory/internal/auth"
	"github.com/spec-kit/user-directory/internal/repository"
	"github.com/spec-kit/user-directory/internal/service"
	apperrors "github.com/spec-kit/user-directory/pkg/util"
)

// UsersHandler exposes user record CRUD.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Register handles POST /cf/v1/users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Password == "" {
		return apperrors.NewValidationError("name and password required", nil)
	}

	profile, err := h.users.Register(c.Context(), service.RegisterInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Password:    req.Password,
		Roles:       req.Roles,
		Permissions: req.Permissions,
	})
	if err != nil {
		if errors.Is(err, service.ErrNameTaken) {
			return apperrors.NewConflict("name already registered", nil)
		}
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(profile)
}

// Get handles GET /cf/v1/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	profile, err := h.users.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	return c.JSON(profile)
}

// List handles GET /cf/v1/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	profiles, err := h.users.List(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"users": profiles})
}

// Update handles PUT /cf/v1/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profile, err := h.users.Update(c.Context(), c.Params("id"), service.UpdateInput{
		Phone:       req.Phone,
		Roles:       req.Roles,
		Permissions: req.Permissions,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	return c.JSON(profile)
}

// Delete handles DELETE /cf/v1/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ChangePassword handles POST /cf/v1/users/password/change for the
// authenticated caller.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.NewPassword == "" {
		return apperrors.NewValidationError("new password required", nil)
	}

	if err := h.users.ChangePassword(c.Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrBadSecret):
			return apperrors.NewForbidden("invalid password")
		case errors.Is(err, repository.ErrNotFound):
			return apperrors.NewNotFound("user", nil)
		default:
			return apperrors.MapError(err)
		}
	}
	return c.SendStatus(http.StatusNoContent)
}
