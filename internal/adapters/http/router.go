package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/samirrijal/ridemap/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers the coordinate API, REST v1, GraphQL and static routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	rateLimit := deps.RateLimit
	if rateLimit <= 0 {
		rateLimit = 120
	}
	app.Use(limiter.New(limiter.Config{
		Max:        rateLimit,
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
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// Coordinate API used by the map client
	app.Get("/get-coordinates", timeout.NewWithContext(DefaultCoordinatesHandler(deps), requestTimeout))
	app.Get("/get-coordinates/:mapId", timeout.NewWithContext(CoordinatesHandler(deps), requestTimeout))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Get("/maps", ListMapsHandler(deps))
	v1.Get("/maps/:id", timeout.NewWithContext(MapSummaryHandler(deps), requestTimeout))
	v1.Get("/maps/:id/coordinates", timeout.NewWithContext(CoordinatesHandler(deps), requestTimeout))
	v1.Get("/maps/:id/geojson", timeout.NewWithContext(MapGeoJSONHandler(deps), requestTimeout))
	v1.Use(func(c *fiber.Ctx) error {
		return errNotFound(c, "no such endpoint: "+c.Path())
	})

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app, deps.SpecPath)

	// Map client
	if deps.PublicDir != "" {
		app.Static("/", deps.PublicDir)
	}
}
