package config

import (
	"time"

	"github.com/spf13/viper"
)

type LogFormat string

const (
	LogFormatConsole LogFormat = "console" // Human-readable output (default)
	LogFormatJSON    LogFormat = "json"    // One JSON object per line
)

type (
	Config struct {
		HTTP
		Global
		Database
		Logging
		Pagination
		Audit
	}

	HTTP struct {
		Port    int32
		Host    string
		GinMode string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path        string
		LogLevel    string // gorm logger level: silent, error, warn, info
		BusyTimeout time.Duration
	}
	Logging struct {
		Level  string
		Format LogFormat
	}
	Pagination struct {
		DefaultLimit int
		MaxLimit     int
	}
	Audit struct {
		Enabled         bool
		RetentionDays   int    // Days to keep audit events (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("database_busy_timeout", "5s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", string(LogFormatConsole))
	v.SetDefault("pagination_default_limit", DefaultPageLimit)
	v.SetDefault("pagination_max_limit", DefaultMaxLimit)

	// Audit defaults
	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	return &Config{
		HTTP: HTTP{
			Port:    v.GetInt32("PORT"),
			Host:    v.GetString("HOST"),
			GinMode: v.GetString("GIN_MODE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:        v.GetString("DATABASE_PATH"),
			LogLevel:    v.GetString("DATABASE_LOG_LEVEL"),
			BusyTimeout: v.GetDuration("DATABASE_BUSY_TIMEOUT"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: LogFormat(v.GetString("LOG_FORMAT")),
		},
		Pagination: Pagination{
			DefaultLimit: v.GetInt("PAGINATION_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("PAGINATION_MAX_LIMIT"),
		},
		Audit: Audit{
			Enabled:         v.GetBool("AUDIT_ENABLED"),
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
	}
}
