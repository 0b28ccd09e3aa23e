package server

import (
	"context"
	"time"

	"sumii-mobile-api/internal/bootstrap"
	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/pkg/serverutils"
	"sumii-mobile-api/internal/tracer"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// bodyLimit sits above the upload cap so oversized files get the upload error, not fiber's.
const bodyLimit = 12 * 1024 * 1024

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:               tracer.ServiceName,
		BodyLimit:             bodyLimit,
		ErrorHandler:          serverutils.ErrorHandler(container.Logger),
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: cfg.App.CorsAllowedOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
	}))

	// traces every HTTP request when a tracer provider is installed
	app.Use(otelfiber.Middleware())

	metrics := fiberprometheus.NewWithRegistry(container.Registry, tracer.ServiceName, "http", "", nil)
	metrics.RegisterAt(app, "/metrics")
	app.Use(metrics.Middleware)

	registerRoutes(app, cfg, container)

	return &Server{app: app, cfg: cfg, container: container}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.container.Logger.Info("Server", "listening", map[string]interface{}{"port": s.cfg.App.Port})
		errCh <- s.app.Listen(":" + s.cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.container.Logger.Info("Server", "shutting down", nil)
		return s.app.ShutdownWithTimeout(10 * time.Second)
	}
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	auth := serverutils.JwtMiddleware(cfg.JWT.Secret)

	c.StatusController.RegisterHealth(app)
	c.ChatHandler.RegisterRoutes(app)

	api := app.Group("/api/v1")

	c.AuthController.RegisterRoutes(api)
	c.OAuthController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api, auth)

	c.ConversationController.RegisterRoutes(api, auth)
	c.DocumentController.RegisterRoutes(api, auth)
	c.SummaryController.RegisterRoutes(api, auth)

	c.AnwaltController.RegisterRoutes(api, auth)
	c.WebhookController.RegisterRoutes(api)

	c.NotificationController.RegisterRoutes(api, auth)
	c.EventsHandler.RegisterRoutes(api)

	c.StatusController.RegisterRoutes(api, auth)
}
