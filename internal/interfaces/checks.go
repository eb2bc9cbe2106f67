package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
	"github.com/mrlokans/bookcatalog/internal/validation"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Book Catalog Repository implementations
var _ catalog.Repository = (*books.Repository)(nil)

var _ http.SnapshotUpdater = (*books.Repository)(nil)

// HealthChecker implementations
var _ http.HealthChecker = (*database.Database)(nil)

// =============================================================================
// Request Handling
// =============================================================================

var _ http.BookValidator = (*validation.Validator)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.AuditLog = (*audit.Service)(nil)
var _ scheduler.Cleaner = (*audit.Service)(nil)
