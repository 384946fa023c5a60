package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pulsespark/engram/pkg/auth"
	"github.com/pulsespark/engram/pkg/engine"
)

// Server is the HTTP server fronting the memory engine.
type Server struct {
	config   Config
	engine   *engine.Engine
	resolver auth.Resolver
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server. The engine and resolver are injected so
// tests can substitute fakes without global mutation.
func NewServer(config Config, eng *engine.Engine, resolver auth.Resolver, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		engine:   eng,
		resolver: resolver,
		logger:   logger,
		app:      app,
	}

	items := app.Group("/memory-items")

	// Health stays open; everything after the middleware requires a
	// resolved identity. Fixed paths register ahead of /:id so they are
	// never captured as an item id.
	items.Get("/health", s.handleHealth)
	items.Use(s.requireIdentity)
	items.Get("/stats/summary", s.handleStats)
	items.Post("/bulk-delete", s.handleBulkDelete)
	items.Get("/", s.handleList)
	items.Post("/", s.handleCreate)
	items.Get("/:id", s.handleGet)
	items.Put("/:id", s.handleUpdate)
	items.Delete("/:id", s.handleDelete)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
