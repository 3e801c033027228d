package constants

const (
	// Environment overrides for the config file
	EnvBackend    = "WELLDAY_BACKEND"
	EnvPath       = "WELLDAY_PATH"
	EnvTimezone   = "WELLDAY_TIMEZONE"
	EnvDebug      = "WELLDAY_DEBUG"
	EnvConnection = "WELLDAY_DB_CONNECTION"

	ConfigFileYAML = "config.yaml"
	ConfigFileTOML = "config.toml"

	DefaultBackend  = BackendSQLite
	DefaultTimezone = "Local" // Use system local timezone by default
)
