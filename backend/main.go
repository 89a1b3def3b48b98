package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"izilearn/backend/config"
	"izilearn/backend/middleware"
	"izilearn/backend/routes"
	"izilearn/backend/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := utils.InitLogger()

	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init failed")
	}
	if err := utils.MigrateDB(db); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	startedAt := time.Now()
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "OK",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"uptime":      time.Since(startedAt).Seconds(),
			"environment": cfg.Environment,
		})
	})

	routes.SetupRoutes(app, db, cfg)

	// Drain connections on SIGINT/SIGTERM before closing the pool.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
		if err := utils.CloseDB(db); err != nil {
			logger.Error().Err(err).Msg("closing database failed")
		}
	}()

	logger.Info().Str("port", cfg.ServerPort).Msg("server starting")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
