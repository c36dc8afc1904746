package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// allMethods is every method the CORS policy admits.
const allMethods = "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS"

// CORSConfig builds the cross-origin policy: the given origins only, any method,
// any request header, credentials allowed.
func CORSConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     allMethods,
		AllowHeaders:     "",
		AllowCredentials: true,
	}
}

// RegisterRoutes installs middleware and all HTTP routes on the Fiber app.
func RegisterRoutes(app *fiber.App, allowedOrigins []string, h *AchievementsHandler) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(CORSConfig(allowedOrigins)))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/", h.Root)
	app.Get("/health", h.Health)

	app.Get("/api/achievements/:playerId", h.GetAchievements)
	// Path used by the first front-end release.
	app.Get("/api/steam/achievements/:playerId", h.GetAchievements)
}
