package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docflow/internal/http/middleware"
	"docflow/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by email and password and sets the session cookie.
func Login(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		session, err := auth.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}

		setAuthCookie(c, session.Token, auth.TokenTTL())
		return c.JSON(session)
	}
}

// Register creates an account and logs it in immediately.
func Register(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.RegisterInput
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		session, err := auth.Register(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}

		setAuthCookie(c, session.Token, auth.TokenTTL())
		return c.Status(fiber.StatusCreated).JSON(session)
	}
}

// Logout clears the session cookie. Tokens are stateless, so this is
// idempotent and always succeeds.
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     middleware.AuthCookieName,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me returns the authenticated user resolved by the auth middleware.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := middleware.UserFromCtx(c)
		if user == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		return c.JSON(user)
	}
}

func setAuthCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
