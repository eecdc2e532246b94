package handler

import (
	"github.com/gofiber/fiber/v2"

	"docflow/internal/http/middleware"
	"docflow/internal/model"
	"docflow/internal/service"
)

// GetPreferences returns the authenticated user's UI preferences, falling
// back to the defaults when nothing was saved yet.
func GetPreferences(prefs *service.Preferences) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := middleware.UserFromCtx(c)
		if user == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		p, err := prefs.Get(c.UserContext(), user.ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// PutPreferences replaces the authenticated user's UI preferences.
func PutPreferences(prefs *service.Preferences) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := middleware.UserFromCtx(c)
		if user == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		var p model.Preferences
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if err := prefs.Set(c.UserContext(), user.ID, p); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// ToggleSidebar flips the sidebar flag and returns the new preferences.
func ToggleSidebar(prefs *service.Preferences) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := middleware.UserFromCtx(c)
		if user == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		p, err := prefs.ToggleSidebar(c.UserContext(), user.ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}
