package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"  validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// LoggingConfig contains the logging-related configuration settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is the storage location: constructing the store against an
// inaccessible location is a fatal startup error.
type DatabaseConfig struct {
	URL             string `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"    validate:"required,gt=0"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"    validate:"required,gt=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" validate:"required,gt=0"` // minutes
}
