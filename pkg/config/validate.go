package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/getmockd/apina/pkg/storage"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if strings.TrimSpace(c.Listen) == "" {
		add("listen address is required")
	}
	if !slices.Contains(storage.Backends(), c.Storage.Backend) {
		add("storage backend %q is not one of %s", c.Storage.Backend, strings.Join(storage.Backends(), ", "))
	}
	if c.Storage.Backend != storage.BackendMemory && c.Storage.Path == "" {
		add("storage backend %q requires a path", c.Storage.Backend)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		add("log format %q is not text or json", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		add("log level %q is not debug, info, warn or error", c.Log.Level)
	}
	return errors.Join(errs...)
}
