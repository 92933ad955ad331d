package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"swapi/internal/config"
	"swapi/internal/http/handlers"
	applog "swapi/internal/log"
	"swapi/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Templates back the share pages only; the app itself speaks JSON.
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "message": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(applog.Timing())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz")
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg)

	// Auth (login throttled)
	auth := app.Group("/api/v1/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false, "message": "Too many attempts. Please try again later.",
			})
		},
	}), deps.AuthHandler.Login)

	// Listings
	api := app.Group("/api/v1")
	api.Get("/listings", handlers.OptionalUser(deps.Auth), deps.ListingHandler.Feed)
	api.Get("/sections", deps.ListingHandler.Sections)
	api.Get("/listings/:id", handlers.OptionalUser(deps.Auth), deps.ListingHandler.Detail)
	api.Post("/listings", handlers.RequireUser(deps.Auth), deps.ListingHandler.Create)
	api.Put("/listings/:id", handlers.RequireUser(deps.Auth), deps.ListingHandler.Update)
	api.Delete("/listings/:id", handlers.RequireUser(deps.Auth), deps.ListingHandler.Delete)
	api.Get("/my/listings", handlers.RequireUser(deps.Auth), deps.ListingHandler.Mine)

	// Favorites
	api.Post("/listings/:id/save", handlers.RequireUser(deps.Auth), deps.FavoriteHandler.Toggle)
	api.Get("/saved", handlers.RequireUser(deps.Auth), deps.FavoriteHandler.List)

	// Public share pages
	app.Get("/l/:id", deps.ShareHandler.Page)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "not found"})
	})

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port})
	log.Fatal(app.Listen(":" + cfg.Port))
}
