package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/mrioja/geotodo-backend/internal/config"
	"github.com/mrioja/geotodo-backend/internal/handlers"
	"github.com/mrioja/geotodo-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	todoHandler *handlers.TodoHandler,
	imageHandler *handlers.ImageHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Root and health stay outside the rate limiters.
	app.Get("/", home)
	app.Get("/health", healthHandler.Check)

	// General rate limit: 60 req/min per IP.
	app.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Auth — public, with a stricter limit: 10 req/min per IP.
	auth := app.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Todos — all routes require a bearer token.
	todos := app.Group("/todos", middleware.JWTProtected(cfg))
	todos.Get("/", todoHandler.List)
	todos.Get("/:id", todoHandler.Get)
	todos.Post("/", todoHandler.Create)
	todos.Put("/:id", todoHandler.Update)
	todos.Patch("/:id", todoHandler.Patch)
	todos.Delete("/:id", todoHandler.Delete)

	// Images — fetch is public, upload and delete require a token.
	app.Post("/images", middleware.JWTProtected(cfg), imageHandler.Upload)
	app.Get("/images/:userId/:imageId", imageHandler.Fetch)
	app.Delete("/images/:userId/:imageId", middleware.JWTProtected(cfg), imageHandler.Delete)
}

func home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "geotodo API",
		"endpoints": fiber.Map{
			"health": "/health",
			"auth": fiber.Map{
				"register": "/auth/register",
				"login":    "/auth/login",
			},
			"todos":  "/todos (requires authentication)",
			"images": "/images (requires authentication)",
		},
	})
}
