package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ecoruta/ecoruta/internal/core/domain"
)

// SessionCookie is the cookie carrying the opaque session token. The same
// token is also accepted as a bearer Authorization header for non-browser
// clients.
const SessionCookie = "ecoruta_session"

const identityLocal = "identity"

// sessionToken extracts the opaque token from the request, cookie first.
func sessionToken(c *fiber.Ctx) string {
	if tok := c.Cookies(SessionCookie); tok != "" {
		return tok
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// SessionMiddleware resolves the session token, if any, into an identity
// stored in request locals. An unresolved token is not an error here; routes
// that mutate state gate on RequireAuth.
func SessionMiddleware(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Sessions == nil {
			return c.Next()
		}

		token := sessionToken(c)
		if token == "" {
			return c.Next()
		}

		identity, err := deps.Sessions.Resolve(c.Context(), token)
		if err == nil && identity != nil {
			c.Locals(identityLocal, identity)
		}
		return c.Next()
	}
}

// RequireAuth rejects requests without a resolved identity before any
// mutation is attempted.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if identityFrom(c) == nil {
			return errUnauthorized(c, "log in before modifying the map")
		}
		return c.Next()
	}
}

// identityFrom returns the resolved acting user, or nil.
func identityFrom(c *fiber.Ctx) *domain.Identity {
	id, _ := c.Locals(identityLocal).(*domain.Identity)
	return id
}

// setSessionCookie attaches the session token to the response.
func setSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// clearSessionCookie expires the session cookie.
func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
