package middleware

import (
	"strings"

	"foodexpress/internal/apperrors"
	"foodexpress/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "fx_session"

const storefrontKey = "storefront"

// AuthRequired is a Fiber middleware that resolves the caller's storefront from
// a bearer token or the session cookie and rejects the request otherwise.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c)
		if err != nil {
			return respondUnauthorized(c, err)
		}

		sf, err := authService.Resolve(tokenString)
		if err != nil {
			return respondUnauthorized(c, err)
		}

		c.Locals(storefrontKey, sf)
		return c.Next()
	}
}

// OptionalAuth resolves the storefront when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, err := extractToken(c); err == nil {
			if sf, err := authService.Resolve(tokenString); err == nil {
				c.Locals(storefrontKey, sf)
			}
		}
		return c.Next()
	}
}

// Storefront returns the storefront stored by AuthRequired or OptionalAuth.
func Storefront(c *fiber.Ctx) (*services.Storefront, bool) {
	sf, ok := c.Locals(storefrontKey).(*services.Storefront)
	return sf, ok && sf != nil
}

// extractToken reads "Authorization: Bearer <token>" and falls back to the cookie.
func extractToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || parts[1] == "" {
			return "", apperrors.NewUnauthorizedError("Authorization header format must be 'Bearer <token>'")
		}
		return parts[1], nil
	}
	if cookie := c.Cookies(SessionCookie); cookie != "" {
		return cookie, nil
	}
	return "", apperrors.NewUnauthorizedError("Authorization header is required")
}

func respondUnauthorized(c *fiber.Ctx, err error) error {
	status, category, message := apperrors.MapToHTTPStatus(err)
	return c.Status(status).JSON(fiber.Map{
		"code":     status,
		"category": category,
		"message":  message,
	})
}
