package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects the storage backend.
// Postgres needs URL; sqlite needs Path (":memory:" is accepted).
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL          string `mapstructure:"url" validate:"required_if=Driver postgres,omitempty,url"`
	Path         string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	// AutoMigrate applies pending migrations on startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// SRSConfig overrides scheduler parameters. Zero values keep the SM-2 defaults.
type SRSConfig struct {
	MinEaseFactor     float64 `mapstructure:"min_ease_factor" validate:"omitempty,gte=1.3"`
	InitialEaseFactor float64 `mapstructure:"initial_ease_factor" validate:"omitempty,gte=1.3"`
	FirstInterval     int     `mapstructure:"first_interval" validate:"gte=0"`
	SecondInterval    int     `mapstructure:"second_interval" validate:"gte=0"`
}

// ReminderConfig controls the study reminder job.
type ReminderConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Cron is a standard five-field cron expression evaluated in UTC.
	Cron          string `mapstructure:"cron" validate:"required_if=Enabled true"`
	TelegramToken string `mapstructure:"telegram_token"`
}
