package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/finmd/internal/config"
)

const shutdownTimeout = 10 * time.Second

// NewApp builds the fiber app with middleware and routes.
func NewApp(cfg config.Config, log zerolog.Logger, version string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "finmd",
		BodyLimit:             cfg.BodyLimitBytes(),
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(RequestID())
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type," + RequestIDHeader,
	}))

	h := &Handler{Version: version}
	h.RegisterRoutes(app)
	return app
}

// Serve listens on cfg.HTTPAddr until ctx is cancelled, then shuts down.
func Serve(ctx context.Context, cfg config.Config, log zerolog.Logger, version string) error {
	app := NewApp(cfg, log, version)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		errCh <- app.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
