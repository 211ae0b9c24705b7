package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/eco-route-service/internal/config"
	"github.com/eco-route-service/internal/delivery/http/handler"
	"github.com/eco-route-service/internal/delivery/http/middleware"
	"github.com/eco-route-service/internal/pkg/errors"
	"github.com/eco-route-service/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	routeHandler    *handler.RouteHandler
	locationHandler *handler.LocationHandler
	statsHandler    *handler.StatsHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	routeHandler *handler.RouteHandler,
	locationHandler *handler.LocationHandler,
	statsHandler *handler.StatsHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Eco Route Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		routeHandler:    routeHandler,
		locationHandler: locationHandler,
		statsHandler:    statsHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App exposes the fiber app, used by handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Legacy entry point kept at the root
	s.app.Post("/routes", s.routeHandler.CompareRoutes)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Routes
	api.Post("/routes", s.routeHandler.CompareRoutes)
	api.Get("/modes", s.routeHandler.GetModes)

	// Locations
	api.Get("/locations/search", s.locationHandler.Search)

	// Stats
	api.Get("/stats", s.statsHandler.GetStatistics)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler отвечает тем же конвертом {success, error, code}, что и хендлеры
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			code := errors.CodeInternal
			switch {
			case fe.Code == fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fe.Code == fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			case fe.Code < fiber.StatusInternalServerError:
				code = errors.CodeValidation
			}
			return c.Status(fe.Code).JSON(utils.Response{
				Success: false,
				Error:   fe.Message,
				Code:    code,
			})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}
