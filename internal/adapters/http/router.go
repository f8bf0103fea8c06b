package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/tripjournal/internal/pkg/metrics"
)

// Version is reported by /v1/health and the X-API-Version header.
const Version = "1.0.0"

const (
	requestTimeout = 15 * time.Second
	// Uploads write the file and parse its metadata before answering.
	uploadTimeout = 60 * time.Second
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression; images are already compressed.
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/v1/photos/files/")
		},
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
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", Version)
		return c.Next()
	})

	// ETag for conditional requests
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}

	v1.Post("/trips", withTimeout(CreateTripHandler(deps)))
	v1.Get("/trips", withTimeout(ListTripsHandler(deps)))
	v1.Get("/trips/:id", withTimeout(GetTripHandler(deps)))
	v1.Put("/trips/:id", withTimeout(UpdateTripHandler(deps)))
	v1.Delete("/trips/:id", withTimeout(DeleteTripHandler(deps)))

	v1.Get("/trips/:id/locations", withTimeout(TripLocationsHandler(deps)))
	v1.Post("/trips/:id/locations", timeout.NewWithContext(CreateLocationHandler(deps), uploadTimeout))
	v1.Put("/locations/:id", withTimeout(UpdateLocationHandler(deps)))
	v1.Delete("/locations/:id", withTimeout(DeleteLocationHandler(deps)))

	v1.Post("/locations/:id/photos", timeout.NewWithContext(AttachPhotoHandler(deps), uploadTimeout))
	v1.Get("/photos/files/:name", PhotoFileHandler(deps))
	v1.Get("/photos/:id/geotag", withTimeout(PhotoGeotagHandler(deps)))
	v1.Post("/photos/:id/reset-location", withTimeout(ResetLocationHandler(deps)))
	v1.Delete("/photos/:id", withTimeout(DeletePhotoHandler(deps)))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.Events)))
}
