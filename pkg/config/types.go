package config

// Config is the apina server configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `json:"listen" yaml:"listen"`
	// PathPrefix is stripped from request paths before dispatch, e.g. "/api".
	// With no prefix, /healthz and /metrics are reserved for the server.
	PathPrefix string `json:"pathPrefix" yaml:"pathPrefix"`

	Storage StorageConfig `json:"storage" yaml:"storage"`

	// BlobDir is the root directory for file: attributes. Empty disables them.
	BlobDir string `json:"blobDir,omitempty" yaml:"blobDir,omitempty"`
	// SchemaFile lists resource types to register at start-up.
	SchemaFile string `json:"schemaFile,omitempty" yaml:"schemaFile,omitempty"`

	Log LogConfig `json:"log" yaml:"log"`
}

// StorageConfig selects the storage backend.
type StorageConfig struct {
	// Backend is one of "memory", "json" or "sqlite".
	Backend string `json:"backend" yaml:"backend"`
	// Path is the database file for the json and sqlite backends.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	// File receives a copy of every log line when set.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Default values.
const (
	DefaultListen      = ":8080"
	DefaultBackend     = "json"
	DefaultStoragePath = "data/apina.json"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen: DefaultListen,
		Storage: StorageConfig{
			Backend: DefaultBackend,
			Path:    DefaultStoragePath,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
