package http

import (
	"github.com/rs/zerolog"

	"github.com/mrlokans/bookcatalog/internal/catalog"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books     catalog.Repository
	Validator BookValidator

	// Optional: nil disables the audit trail and its endpoint
	Audit AuditLog

	// Optional: nil reports the database as not configured
	Database HealthChecker

	Logger zerolog.Logger

	// Default page size for List and Search
	DefaultLimit int

	// Application info
	Version string
}
