package config

// Environment variable names.
const (
	EnvListen         = "APINA_LISTEN"
	EnvPathPrefix     = "APINA_URLPATH_PREFIX"
	EnvStorageBackend = "APINA_STORAGE_BACKEND"
	EnvStoragePath    = "APINA_STORAGE_PATH"
	EnvBlobDir        = "APINA_BLOB_DIR"
	EnvSchemaFile     = "APINA_SCHEMA_FILE"
	EnvLogLevel       = "APINA_LOG_LEVEL"
	EnvLogFormat      = "APINA_LOG_FORMAT"
	EnvLogPath        = "APINA_LOG_PATH"
)

// ApplyEnv overrides cfg with the APINA_* variables that are set.
// getenv is usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Listen, EnvListen)
	set(&cfg.PathPrefix, EnvPathPrefix)
	set(&cfg.Storage.Backend, EnvStorageBackend)
	set(&cfg.Storage.Path, EnvStoragePath)
	set(&cfg.BlobDir, EnvBlobDir)
	set(&cfg.SchemaFile, EnvSchemaFile)
	set(&cfg.Log.Level, EnvLogLevel)
	set(&cfg.Log.Format, EnvLogFormat)
	set(&cfg.Log.File, EnvLogPath)
}
