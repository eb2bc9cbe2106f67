// Package audit persists the trail of catalog mutations.
package audit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

const defaultEventLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Query selects audit events. Zero values match everything.
type Query struct {
	EventType entities.AuditEventType
	BookID    *uint
	Limit     int
	Offset    int
}

// LogEvent saves an audit event, stamping CreatedAt when unset.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("log audit event: %w", err)
	}
	return nil
}

// Events returns matching events, most recent first, with the total count
// before pagination.
func (r *Repository) Events(ctx context.Context, q Query) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{})
	if q.EventType != "" {
		query = query.Where("event_type = ?", q.EventType)
	}
	if q.BookID != nil {
		query = query.Where("entity_type = ? AND entity_id = ?", "book", *q.BookID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit events: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list audit events: %w", err)
	}
	return events, total, nil
}

// DeleteOlderThan removes events created before cutoff and returns how many
// were removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete audit events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
