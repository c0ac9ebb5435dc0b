package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"tasks-api/internal/config"
	"tasks-api/internal/errors"
)

// Server is the HTTP front end of the task service
type Server struct {
	app      *fiber.App
	handlers *Handlers
	addr     string
	logger   *slog.Logger
}

// NewServer builds the fiber application and registers every route.
// Access log lines go to accessLog; a nil accessLog disables them.
func NewServer(api BusinessAPI, cfg *config.Config, logger *slog.Logger, accessLog io.Writer) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		handlers: NewHandlers(api, logger, cfg.Server.RequestTimeout),
		addr:     cfg.Server.Addr,
		logger:   logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "Tasks API",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	if accessLog != nil {
		s.app.Use(newAccessLogger(accessLog))
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.CORSAllowedOrigins, ","),
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	s.registerRoutes()
	return s
}

func newAccessLogger(w io.Writer) fiber.Handler {
	return logger.New(logger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		Output: w,
	})
}

// App exposes the underlying fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Start begins listening in the background. It reports errors that happen
// while binding, such as the address already being in use.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	s.logger.Info("HTTP server started", "addr", s.addr)
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	s.app.Get("/", s.handlers.Root)
	s.app.Get("/health", s.handlers.HealthCheck)

	v1 := s.app.Group("/api/v1")
	v1.Get("/tasks", s.handlers.ListTasks)
	v1.Post("/tasks", s.handlers.CreateTask)
	v1.Patch("/tasks/:id", s.handlers.UpdateTask)
	v1.Delete("/tasks/:id", s.handlers.DeleteTask)
}

// errorHandler turns handler errors into JSON responses
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := statusForError(err)

	if status >= fiber.StatusInternalServerError && errors.ShouldLogError(err) {
		s.logger.Error("Request failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", err)
	} else {
		s.logger.Debug("Request rejected",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", err)
	}

	return c.Status(status).JSON(errorResponse(err))
}
