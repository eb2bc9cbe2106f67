// Package audit records catalog mutations made through the HTTP layer and
// the CLI. Recording never fails the caller: a failed write is logged.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// RequestMeta identifies who triggered an event.
type RequestMeta struct {
	RequestID string
	IPAddress string
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo *auditRepo.Repository
	log  zerolog.Logger
}

// NewService creates a new audit service.
func NewService(repo *auditRepo.Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "audit").Logger()}
}

// Log records an event and logs, rather than returns, a failure.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) {
	if err := s.repo.LogEvent(ctx, event); err != nil {
		s.log.Error().Err(err).Str("action", event.Action).Msg("failed to record audit event")
	}
}

// BookCreated records a successful create.
func (s *Service) BookCreated(ctx context.Context, book *entities.Book, meta RequestMeta) {
	s.Log(ctx, bookEvent(entities.AuditEventCreate, book.ID, "Created book: "+book.String(), meta, map[string]any{
		"title":  book.Title,
		"author": book.Author,
		"year":   book.Year,
	}))
}

// BookUpdated records a successful update with the fields that changed.
func (s *Service) BookUpdated(ctx context.Context, before, after *entities.Book, meta RequestMeta) {
	s.Log(ctx, bookEvent(entities.AuditEventUpdate, after.ID, "Updated book: "+after.String(), meta, changes(before, after)))
}

// BookDeleted records a successful delete.
func (s *Service) BookDeleted(ctx context.Context, id uint, meta RequestMeta) {
	s.Log(ctx, bookEvent(entities.AuditEventDelete, id, fmt.Sprintf("Deleted book %d", id), meta, nil))
}

// BooksSeeded records a seed run.
func (s *Service) BooksSeeded(ctx context.Context, created, skipped int) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventSeed,
		Action:      "book_seed",
		Description: fmt.Sprintf("Seeded %d books (%d already present)", created, skipped),
		EntityType:  "book",
		Status:      entities.AuditStatusSuccess,
		Metadata:    encode(map[string]any{"created": created, "skipped": skipped}),
	}
	s.Log(ctx, event)
}

// Events returns recorded events, most recent first.
func (s *Service) Events(ctx context.Context, q auditRepo.Query) ([]entities.AuditEvent, int64, error) {
	return s.repo.Events(ctx, q)
}

// Cleanup removes events older than retentionDays (30 when not positive).
func (s *Service) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	return s.repo.DeleteOlderThan(ctx, cutoff)
}

func bookEvent(eventType entities.AuditEventType, id uint, description string, meta RequestMeta, metadata map[string]any) *entities.AuditEvent {
	entityID := id
	return &entities.AuditEvent{
		EventType:   eventType,
		Action:      "book_" + string(eventType),
		Description: truncate(description, 500),
		EntityType:  "book",
		EntityID:    &entityID,
		Metadata:    encode(metadata),
		RequestID:   meta.RequestID,
		IPAddress:   meta.IPAddress,
		Status:      entities.AuditStatusSuccess,
	}
}

// changes lists each field whose value differs, as {"field": [old, new]}.
func changes(before, after *entities.Book) map[string]any {
	diff := map[string]any{}
	if before == nil || after == nil {
		return diff
	}
	if before.Title != after.Title {
		diff["title"] = []any{before.Title, after.Title}
	}
	if before.Author != after.Author {
		diff["author"] = []any{before.Author, after.Author}
	}
	if !sameYear(before.Year, after.Year) {
		diff["year"] = []any{before.Year, after.Year}
	}
	return diff
}

func sameYear(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func encode(metadata map[string]any) string {
	if len(metadata) == 0 {
		return ""
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(data)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
