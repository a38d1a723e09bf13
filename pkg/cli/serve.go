package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/apina/pkg/api"
	"github.com/getmockd/apina/pkg/config"
	"github.com/getmockd/apina/pkg/dispatch"
	"github.com/getmockd/apina/pkg/metrics"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// readHeaderTimeout bounds how long a client may take to send headers.
const readHeaderTimeout = 10 * time.Second

// storageFlags select storage and are shared by serve and call.
type storageFlags struct {
	backend string
	path    string
	blobDir string
}

func (f *storageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "storage", "", "Storage backend (memory, json, sqlite)")
	cmd.Flags().StringVar(&f.path, "storage-path", "", "Database file for the json and sqlite backends")
	cmd.Flags().StringVar(&f.blobDir, "blob-dir", "", "Root directory for file: attributes")
}

func (f *storageFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Storage.Backend = f.backend
	}
	if flags.Changed("storage-path") {
		cfg.Storage.Path = f.path
	}
	if flags.Changed("blob-dir") {
		cfg.BlobDir = f.blobDir
	}
}

type serveFlags struct {
	storageFlags
	listen    string
	prefix    string
	schemas   string
	noMetrics bool
}

func newServeCmd(rf *rootFlags) *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the apina HTTP server (foreground)",
		Long: `Start the HTTP server. Every request is answered from the configured
storage; GET /healthz reports liveness and GET /metrics exposes Prometheus
metrics unless --no-metrics is given.

Resource types listed in the schema file are registered before the server
starts accepting requests.`,
		Example: `  # Start with defaults (json storage in data/apina.json)
  apina serve

  # SQLite storage, types from a file, served under /api
  apina serve --storage sqlite --storage-path apina.db --schemas schemas.yaml --prefix /api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, rf, func(cfg *config.Config) {
				f.apply(cmd, cfg)
				flags := cmd.Flags()
				if flags.Changed("listen") {
					cfg.Listen = f.listen
				}
				if flags.Changed("prefix") {
					cfg.PathPrefix = f.prefix
				}
				if flags.Changed("schemas") {
					cfg.SchemaFile = f.schemas
				}
			})
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", cfg.Listen)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Listen, err)
			}
			return serve(ctx, cfg, log, ln, !f.noMetrics)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.listen, "listen", "l", "", "HTTP listen address (default \":8080\")")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "URL path prefix removed before dispatch")
	cmd.Flags().StringVar(&f.schemas, "schemas", "", "YAML or JSON file of resource types to register")
	cmd.Flags().BoolVar(&f.noMetrics, "no-metrics", false, "Disable the /metrics endpoint")
	return cmd
}

// serve runs the HTTP server on ln until ctx is done, then shuts it down.
func serve(ctx context.Context, cfg *config.Config, log *slog.Logger, ln net.Listener, withMetrics bool) error {
	var (
		dispatchOpts []dispatch.Option
		apiOpts      = []api.Option{
			api.WithLogger(log),
			api.WithPathPrefix(cfg.PathPrefix),
		}
	)
	if withMetrics {
		reg := metrics.NewRegistry()
		collector := metrics.New(reg)
		dispatchOpts = append(dispatchOpts, dispatch.WithObserver(collector))
		apiOpts = append(apiOpts, api.WithMetrics(collector, reg))
	}

	a, err := newApp(cfg, log, dispatchOpts...)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("failed to close storage", "error", err)
		}
	}()

	if cfg.SchemaFile != "" {
		if err := a.seedSchemas(cfg.SchemaFile); err != nil {
			_ = ln.Close()
			return err
		}
	}

	srv := &http.Server{
		Handler:           api.NewServer(a.dispatcher, apiOpts...).Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	log.Info("server listening",
		"addr", ln.Addr().String(),
		"storage", cfg.Storage.Backend,
		"prefix", cfg.PathPrefix,
		"metrics", withMetrics,
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
