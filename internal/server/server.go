// Package server exposes the changelog and contact pipelines over HTTP.
//
// Routes:
//
//	GET  /api/changelog           full changelog document (JSON)
//	GET  /api/changelog/:version  one entry (JSON)
//	GET  /changelog               server-rendered changelog page
//	POST /api/contact             contact form submission
//	GET  /healthz                 liveness and build version
package server

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/davido-builds/openicons-site/internal/changelog"
	"github.com/davido-builds/openicons-site/internal/contact"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// AppName is reported in fiber's startup banner.
const AppName = "openicons-site"

// accessLogFormat prefixes each access line with the request id.
const accessLogFormat = "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n"

// Submitter runs contact submissions through the contact pipeline.
type Submitter interface {
	Submit(ctx context.Context, clientKey string, sub contact.Submission) (contact.Result, error)
}

// Options configures the HTTP surface.
type Options struct {
	// Production hides diagnostic details in error responses.
	Production bool
	// Version is reported by /healthz.
	Version string
	// AccessLog receives access log lines (default: os.Stdout).
	AccessLog io.Writer
}

// Server wires the pipelines into a fiber app.
type Server struct {
	app       *fiber.App
	changelog changelog.Fetcher
	contact   Submitter
	opts      Options
}

// New creates a Server with its routes registered.
func New(docs changelog.Fetcher, submitter Submitter, opts Options) *Server {
	if opts.AccessLog == nil {
		opts.AccessLog = os.Stdout
	}

	app := fiber.New(fiber.Config{
		AppName:               AppName,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: accessLogFormat,
		Output: opts.AccessLog,
	}))

	s := &Server{
		app:       app,
		changelog: docs,
		contact:   submitter,
		opts:      opts,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", HealthHandler(s.opts.Version))

	api := s.app.Group("/api")
	api.Get("/changelog", ChangelogHandler(s.changelog, s.opts))
	api.Get("/changelog/:version", ChangelogVersionHandler(s.changelog, s.opts))
	api.Post("/contact", ContactHandler(s.contact, s.opts))

	s.app.Get("/changelog", ChangelogPageHandler(s.changelog))
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	log.Printf("[server] listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("[server] shutting down")
	return s.app.ShutdownWithContext(ctx)
}

// HealthHandler reports liveness and the build version.
func HealthHandler(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": version,
		})
	}
}
