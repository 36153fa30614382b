package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ecoruta/ecoruta/internal/core/domain"
)

type nameRequest struct {
	Name string `json:"name"`
}

// RegisterUserHandler creates a new user with score 0.
func RegisterUserHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req nameRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "body must be JSON with a name field")
		}

		user, err := deps.Users.Register(c.Context(), req.Name)
		if err != nil {
			return fromDomainError(c, err)
		}
		return c.Status(201).JSON(user)
	}
}

// LoginHandler resolves a name to an existing user and opens a session.
// Unknown names get 404 so the client can prompt to register instead.
func LoginHandler(deps *Dependencies, sessionTTL time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req nameRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "body must be JSON with a name field")
		}

		user, err := deps.Users.GetByName(c.Context(), req.Name)
		if err != nil {
			return fromDomainError(c, err)
		}

		token, err := deps.Sessions.Create(c.Context(), domain.Identity{
			UserID: user.ID,
			Name:   user.Name,
		})
		if err != nil {
			return errInternal(c, "could not open session")
		}

		setSessionCookie(c, token, sessionTTL)
		return c.JSON(fiber.Map{"token": token, "user": user})
	}
}

// LogoutHandler destroys the current session.
func LogoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := sessionToken(c); token != "" {
			_ = deps.Sessions.Destroy(c.Context(), token)
		}
		clearSessionCookie(c)
		return c.SendStatus(204)
	}
}

// CurrentSessionHandler returns the resolved identity for the caller.
func CurrentSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := identityFrom(c)
		if identity == nil {
			return errUnauthorized(c, "no active session")
		}
		return c.JSON(identity)
	}
}

// GetUserHandler returns a public profile: name, score, derived level.
func GetUserHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		user, err := deps.Users.GetByName(c.Context(), name)
		if err != nil {
			return fromDomainError(c, err)
		}
		return c.JSON(user)
	}
}

// LeaderboardHandler returns users ranked by score.
func LeaderboardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 25)

		users, err := deps.Users.Leaderboard(c.Context(), limit)
		if err != nil {
			return fromDomainError(c, err)
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(users)
	}
}
