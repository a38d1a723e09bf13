package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/getmockd/apina/pkg/config"
	"github.com/getmockd/apina/pkg/dispatch"
	"github.com/getmockd/apina/pkg/logging"
	"github.com/getmockd/apina/pkg/message"
	"github.com/getmockd/apina/pkg/resource"
	"github.com/getmockd/apina/pkg/storage"
)

// loadConfig resolves the configuration for cmd. apply copies command flags
// that were set onto the loaded configuration.
func loadConfig(cmd *cobra.Command, f *rootFlags, apply func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if apply != nil {
		apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: w,
		File:   cfg.Log.File,
	})
}

// app is the storage and dispatcher built from a configuration.
type app struct {
	cfg        *config.Config
	log        *slog.Logger
	backend    storage.Backend
	store      *storage.Store
	dispatcher *dispatch.Dispatcher
}

func newApp(cfg *config.Config, log *slog.Logger, opts ...dispatch.Option) (*app, error) {
	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	store := storage.New(backend, storage.WithLogger(log))

	opts = append([]dispatch.Option{dispatch.WithLogger(log)}, opts...)
	if cfg.BlobDir != "" {
		opts = append(opts, dispatch.WithBlobs(resource.NewDirBlobs(cfg.BlobDir)))
	}

	log.Debug("storage opened",
		"backend", backend.Name(),
		"path", cfg.Storage.Path,
		"blobDir", cfg.BlobDir,
	)

	return &app{
		cfg:        cfg,
		log:        log,
		backend:    backend,
		store:      store,
		dispatcher: dispatch.New(store, opts...),
	}, nil
}

// Close releases the storage backend.
func (a *app) Close() error {
	if c, ok := a.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// seedSchemas registers every type in the schema file with
// PUT /resource/<type>.
func (a *app) seedSchemas(path string) error {
	types, err := config.LoadSchemas(path)
	if err != nil {
		return err
	}

	for _, t := range types {
		req := message.NewRequest(message.VerbPut, resource.SchemaHref(t.Name), t.Definition)
		resp, err := a.dispatcher.Dispatch(req)
		if err != nil {
			return fmt.Errorf("%w %q: %w", ErrSeedSchema, t.Name, err)
		}
		if resp.Code != 200 {
			body, _ := resp.Body().MarshalJSON()
			return fmt.Errorf("%w %q: %s", ErrSeedSchema, t.Name, body)
		}
		a.log.Info("registered resource type", "type", t.Name, "attributes", t.Definition.Len())
	}
	return nil
}
