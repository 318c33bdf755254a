package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davido-builds/openicons-site/internal/build"
	"github.com/davido-builds/openicons-site/internal/changelog"
	"github.com/davido-builds/openicons-site/internal/config"
	"github.com/davido-builds/openicons-site/internal/contact"
	"github.com/davido-builds/openicons-site/internal/notify"
	"github.com/davido-builds/openicons-site/internal/server"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds graceful shutdown after SIGINT/SIGTERM.
const shutdownTimeout = 10 * time.Second

var (
	servePortFlag  int
	serveWatchFlag bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server exposing the changelog API and page and the
contact form endpoint.

Routes:
  GET  /api/changelog            changelog document (JSON)
  GET  /api/changelog/:version   single entry (JSON)
  GET  /changelog                rendered changelog page
  POST /api/contact              contact form submission
  GET  /healthz                  liveness and build version`,
	Example: `  # Start on the configured port (default 8080)
  openicons serve

  # Override the port and reload the local changelog file on change
  openicons serve --port 3000 --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.GroupID = GroupServer
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePortFlag, "port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVarP(&serveWatchFlag, "watch", "w", false, "Invalidate the changelog cache when the local fallback file changes")
}

// application holds the wired components behind the server.
type application struct {
	server *server.Server
	cache  *changelog.CachedSource
	cfg    *config.Configuration
}

// newApplication wires the changelog and contact pipelines into a server.
func newApplication(cfg *config.Configuration, accessLog io.Writer) *application {
	source := changelog.NewSource(cfg.SourceConfig(build.UserAgent()))
	cache := changelog.NewCachedSource(source, cfg.CacheConfig())

	dispatcher := notify.NewHandler(cfg.Notify)
	contactSvc := contact.NewService(cfg.Contact, dispatcher)

	srv := server.New(cache, contactSvc, server.Options{
		Production: cfg.IsProduction(),
		Version:    build.Version,
		AccessLog:  accessLog,
	})

	return &application{server: srv, cache: cache, cfg: cfg}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePortFlag
	}

	logStartup(cfg)
	app := newApplication(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveWatchFlag {
		watcher, err := changelog.NewFileWatcher(cfg.Changelog.FallbackPath, app.cache)
		if err != nil {
			return fmt.Errorf("starting changelog watcher: %w", err)
		}
		defer watcher.Close()
		go watcher.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Listen(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutting down: %w", err)
	}
	app.cache.Wait()
	return nil
}

func logStartup(cfg *config.Configuration) {
	log.Printf("[server] %s, environment %s", build.Info(), cfg.Environment)
	if cfg.Path != "" {
		log.Printf("[server] config loaded from %s", cfg.Path)
	}
	if cfg.Changelog.URL == "" {
		log.Printf("[server] no changelog URL configured, serving %s", cfg.Changelog.FallbackPath)
	}
	if cfg.Notify.EmailAPIKey == "" {
		log.Printf("[server] email delivery is not configured; contact submissions will fail")
	}
}
