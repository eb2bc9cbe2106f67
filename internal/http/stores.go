package http

import (
	"context"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// This file consolidates the interfaces HTTP controllers depend on.

// BookValidator checks request shape before the store is called.
type BookValidator interface {
	NewBook(input catalog.NewBook) error
	BookUpdate(update catalog.BookUpdate) error
	Page(page catalog.Page) error
}

// SnapshotUpdater is a store whose update also returns the prior record,
// read in the same transaction as the write.
type SnapshotUpdater interface {
	UpdateWithPrevious(ctx context.Context, id uint, update catalog.BookUpdate) (before, after *entities.Book, err error)
}

// AuditRecorder records successful mutations.
type AuditRecorder interface {
	BookCreated(ctx context.Context, book *entities.Book, meta audit.RequestMeta)
	BookUpdated(ctx context.Context, before, after *entities.Book, meta audit.RequestMeta)
	BookDeleted(ctx context.Context, id uint, meta audit.RequestMeta)
}

// AuditReader lists recorded events.
type AuditReader interface {
	Events(ctx context.Context, q auditRepo.Query) ([]entities.AuditEvent, int64, error)
}

// AuditLog is the full audit surface used by the router.
type AuditLog interface {
	AuditRecorder
	AuditReader
}

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	Ping() error
}
