// Package api assembles the Fiber application serving the REST and GraphQL routes.
package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ortelius/obsolescence-backend/config"
	"github.com/ortelius/obsolescence-backend/restapi"
)

// NewFiberApp creates and configures a Fiber app with REST and GraphQL routes
func NewFiberApp(cfg config.ServerConfig, deps restapi.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:     "obsolescence-backend API v1.0",
		BodyLimit:   4 * 1024 * 1024, // 4MB
		ReadTimeout: 60 * time.Second,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	// Credentials cannot be combined with a wildcard origin
	origins := strings.TrimSpace(cfg.CorsOrigins)
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: origins != "*",
		AllowMethods:     "GET, POST, HEAD, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("graphql_op", "-")
		return c.Next()
	})
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} - ${latency} ${method} ${path} ${locals:graphql_op}\n",
	}))

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	restapi.SetupRoutes(app, deps)

	return app
}
