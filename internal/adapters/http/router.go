package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/ecoruta/ecoruta/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, sessionTTL time.Duration) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Coordinate-based deletion is superseded by deletion by point ID
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Method:      fiber.MethodDelete,
			Path:        "/v1/points",
			SunsetDate:  time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/points/:id",
		},
	}))

	// Resolve session tokens into an acting identity
	app.Use(SessionMiddleware(deps))

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")

	// Users and sessions
	v1.Post("/users", timeout.NewWithContext(RegisterUserHandler(deps), 15*time.Second))
	v1.Post("/sessions", timeout.NewWithContext(LoginHandler(deps, sessionTTL), 15*time.Second))
	v1.Delete("/sessions", RequireAuth(), timeout.NewWithContext(LogoutHandler(deps), 15*time.Second))
	v1.Get("/sessions/me", RequireAuth(), CurrentSessionHandler(deps))
	v1.Get("/users/:name", timeout.NewWithContext(GetUserHandler(deps), 15*time.Second))
	v1.Get("/leaderboard", timeout.NewWithContext(LeaderboardHandler(deps), 15*time.Second))

	// Points
	v1.Get("/points", timeout.NewWithContext(ListPointsHandler(deps), 15*time.Second))
	v1.Post("/points", RequireAuth(), timeout.NewWithContext(PlacePointHandler(deps), 15*time.Second))
	v1.Delete("/points", RequireAuth(), timeout.NewWithContext(DeletePointByCoordinateHandler(deps), 15*time.Second))
	v1.Delete("/points/mine", RequireAuth(), timeout.NewWithContext(ClearOwnPointsHandler(deps), 15*time.Second))
	v1.Delete("/points/:id", RequireAuth(), timeout.NewWithContext(DeletePointByIDHandler(deps), 15*time.Second))

	// Route planning
	v1.Post("/routes/plan", timeout.NewWithContext(PlanRouteHandler(deps), 15*time.Second))

	// Aggregate counters
	v1.Get("/stats", timeout.NewWithContext(StatsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if deps.NATS == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "event stream unavailable")
		}
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
