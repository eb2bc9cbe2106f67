package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB, *bytes.Buffer) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))

	var logs bytes.Buffer
	svc := NewService(auditRepo.NewRepository(db), zerolog.New(&logs))
	return svc, db, &logs
}

func intPtr(v int) *int { return &v }

func TestService_BookCreated(t *testing.T) {
	svc, db, _ := setupTestService(t)
	book := &entities.Book{ID: 4, Title: "1984", Author: "George Orwell", Year: intPtr(1949)}

	svc.BookCreated(context.Background(), book, RequestMeta{RequestID: "req-1", IPAddress: "127.0.0.1"})

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved).Error)
	assert.Equal(t, entities.AuditEventCreate, saved.EventType)
	assert.Equal(t, "book_create", saved.Action)
	assert.Equal(t, "book", saved.EntityType)
	require.NotNil(t, saved.EntityID)
	assert.Equal(t, uint(4), *saved.EntityID)
	assert.Equal(t, "req-1", saved.RequestID)
	assert.Equal(t, "127.0.0.1", saved.IPAddress)
	assert.Contains(t, saved.Description, "1984")

	var metadata map[string]any
	require.NoError(t, json.Unmarshal([]byte(saved.Metadata), &metadata))
	assert.Equal(t, "George Orwell", metadata["author"])
}

func TestService_BookUpdated(t *testing.T) {
	svc, db, _ := setupTestService(t)
	before := &entities.Book{ID: 1, Title: "1984", Author: "George Orwell", Year: intPtr(1949)}
	after := &entities.Book{ID: 1, Title: "1984", Author: "George Orwell", Year: intPtr(1950)}

	svc.BookUpdated(context.Background(), before, after, RequestMeta{})

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved).Error)
	assert.Equal(t, entities.AuditEventUpdate, saved.EventType)

	var metadata map[string]any
	require.NoError(t, json.Unmarshal([]byte(saved.Metadata), &metadata))
	assert.Contains(t, metadata, "year")
	assert.NotContains(t, metadata, "title")
	assert.NotContains(t, metadata, "author")
}

func TestService_BookDeleted(t *testing.T) {
	svc, db, _ := setupTestService(t)

	svc.BookDeleted(context.Background(), 9, RequestMeta{RequestID: "req-9"})

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved).Error)
	assert.Equal(t, "book_delete", saved.Action)
	assert.Equal(t, uint(9), *saved.EntityID)
	assert.Empty(t, saved.Metadata)
}

func TestService_BooksSeeded(t *testing.T) {
	svc, db, _ := setupTestService(t)

	svc.BooksSeeded(context.Background(), 3, 2)

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved).Error)
	assert.Equal(t, entities.AuditEventSeed, saved.EventType)
	assert.Nil(t, saved.EntityID)
	assert.Contains(t, saved.Description, "Seeded 3 books")
}

func TestService_LogFailureIsLogged(t *testing.T) {
	svc, db, logs := setupTestService(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	svc.BookDeleted(context.Background(), 1, RequestMeta{})

	assert.Contains(t, logs.String(), "failed to record audit event")
}

func TestService_Cleanup(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupTestService(t)

	svc.Log(ctx, &entities.AuditEvent{EventType: entities.AuditEventCreate, CreatedAt: time.Now().Add(-40 * 24 * time.Hour)})
	svc.Log(ctx, &entities.AuditEvent{EventType: entities.AuditEventCreate, CreatedAt: time.Now().Add(-10 * 24 * time.Hour)})
	svc.Log(ctx, &entities.AuditEvent{EventType: entities.AuditEventCreate})

	deleted, err := svc.Cleanup(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = svc.Cleanup(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := svc.Events(ctx, auditRepo.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestChanges(t *testing.T) {
	before := &entities.Book{Title: "A", Author: "B", Year: nil}
	after := &entities.Book{Title: "A2", Author: "B", Year: intPtr(2000)}

	diff := changes(before, after)

	assert.Contains(t, diff, "title")
	assert.Contains(t, diff, "year")
	assert.NotContains(t, diff, "author")
	assert.Empty(t, changes(before, before))
}
