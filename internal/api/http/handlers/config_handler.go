package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-directory/internal/service"
	apperrors "github.com/spec-kit/user-directory/pkg/util"
)

// ConfigHandler serves the roles/permissions catalog.
type ConfigHandler struct {
	users *service.UserService
}

// NewConfigHandler constructs handler.
func NewConfigHandler(userService *service.UserService) *ConfigHandler {
	return &ConfigHandler{users: userService}
}

// Data handles GET /cf/v1/users/config/data.
func (h *ConfigHandler) Data(c *fiber.Ctx) error {
	catalog, err := h.users.ConfigData(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(catalog)
}
