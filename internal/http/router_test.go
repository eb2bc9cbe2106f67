package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/database"
	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/validation"
)

func newTestRouter(t *testing.T, withAudit bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "router.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := RouterConfig{
		Books:        books.NewRepository(db.DB),
		Validator:    validation.New(1000),
		Database:     db,
		Logger:       zerolog.Nop(),
		DefaultLimit: 100,
		Version:      "test",
	}
	if withAudit {
		cfg.Audit = audit.NewService(auditRepo.NewRepository(db.DB), zerolog.Nop())
	}
	return NewRouter(cfg)
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestNewRouter_Index(t *testing.T) {
	t.Run("lists endpoints", func(t *testing.T) {
		w := serve(newTestRouter(t, false), "GET", "/", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var index IndexResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &index))
		assert.Equal(t, "Welcome to Book Catalog API", index.Message)
		assert.Equal(t, "test", index.Version)
		assert.Contains(t, index.Endpoints, "GET /books")
		assert.NotContains(t, index.Endpoints, "GET /audit/events")
	})

	t.Run("advertises audit when enabled", func(t *testing.T) {
		w := serve(newTestRouter(t, true), "GET", "/", "")

		var index IndexResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &index))
		assert.Contains(t, index.Endpoints, "GET /audit/events")
		assert.NotContains(t, endpoints, "GET /audit/events")
	})
}

func TestNewRouter_Routes(t *testing.T) {
	router := newTestRouter(t, false)

	assert.Equal(t, http.StatusOK, serve(router, "GET", "/health", "").Code)
	assert.Contains(t, serve(router, "GET", "/ping", "").Body.String(), "pong")
	assert.Equal(t, http.StatusNotFound, serve(router, "GET", "/audit/events", "").Code)

	w := serve(router, "GET", "/books", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestNewRouter_BookLifecycle(t *testing.T) {
	router := newTestRouter(t, true)

	w := serve(router, "POST", "/books", `{"title":"1984","author":"George Orwell","year":1949}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(router, "POST", "/books", `{"title":"Animal Farm","author":"George Orwell","year":1945}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(router, "GET", "/books/search?author=orwell", "")
	assert.Len(t, decodeBooks(t, w), 2)

	w = serve(router, "PATCH", "/books/1", `{"year":1950}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, "DELETE", "/books/2", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(router, "GET", "/books", "")
	got := decodeBooks(t, w)
	require.Len(t, got, 1)
	assert.Equal(t, 1950, *got[0].Year)

	w = serve(router, "GET", "/audit/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page auditPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(4), page.Total)
	assert.NotEmpty(t, page.Data[0].RequestID)
}
