package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

type options struct {
	logLevel    logger.LogLevel
	busyTimeout time.Duration
}

// Option tunes how NewDatabase opens the store.
type Option func(*options)

// WithLogLevel sets the gorm logger level: silent, error, warn or info.
// Unknown names leave the default (warn) in place.
func WithLogLevel(level string) Option {
	return func(o *options) {
		if l, ok := parseLogLevel(level); ok {
			o.logLevel = l
		}
	}
}

// WithBusyTimeout sets how long sqlite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// NewDatabase opens (creating if needed) the sqlite file at dbPath and
// migrates the catalog schema.
//
// The pool is capped at one connection and transactions begin IMMEDIATE, so
// the store has a single writer and a check-then-write inside a transaction
// cannot interleave with another writer.
func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{logLevel: logger.Warn, busyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath, o.busyTimeout)), &gorm.Config{
		Logger: logger.Default.LogMode(o.logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.AuditEvent{},
	)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func dsn(path string, busyTimeout time.Duration) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d&_txlock=immediate", path, sep, busyTimeout.Milliseconds())
}

func parseLogLevel(level string) (logger.LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent, true
	case "error":
		return logger.Error, true
	case "warn", "warning":
		return logger.Warn, true
	case "info":
		return logger.Info, true
	default:
		return 0, false
	}
}
