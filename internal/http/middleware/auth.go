package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docflow/internal/model"
)

const (
	// AuthCookieName is the cookie carrying the session token.
	AuthCookieName = "auth_token"
	// UserLocalKey is the key under which the authenticated user is stored in
	// Fiber's context locals.
	UserLocalKey = "user"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Profile(ctx context.Context, token string) (*model.User, error)
}

// Authenticate rejects requests without a valid session token. The token is
// read from the auth_token cookie, falling back to a Bearer Authorization
// header. The resolved user is stored in context locals for handlers.
func Authenticate(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(AuthCookieName)
		if token == "" {
			header := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			return unauthorized(c)
		}

		user, err := auth.Profile(c.UserContext(), token)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// RequireAdmin rejects authenticated users without the admin role. It must
// run after Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := UserFromCtx(c)
		if user == nil {
			return unauthorized(c)
		}
		if !user.IsAdmin() {
			rid, _ := c.Locals(RequestIDLocalKey).(string)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"request_id": rid,
				"error": fiber.Map{
					"code":    "FORBIDDEN",
					"message": "admin role required",
				},
			})
		}
		return c.Next()
	}
}

// UserFromCtx returns the authenticated user stored by Authenticate, or nil.
func UserFromCtx(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(UserLocalKey).(*model.User)
	return user
}

func unauthorized(c *fiber.Ctx) error {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"request_id": rid,
		"error": fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": "authentication required",
		},
	})
}
