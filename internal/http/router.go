package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IndexResponse describes the API at its root.
type IndexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version,omitempty"`
	Endpoints map[string]string `json:"endpoints"`
}

var endpoints = map[string]string{
	"GET /books":         "List books (title, author, year, skip, limit)",
	"GET /books/search":  "Search books (title, author, year, skip, limit)",
	"GET /books/{id}":    "Get a specific book",
	"POST /books":        "Create a new book",
	"PUT /books/{id}":    "Update a book",
	"PATCH /books/{id}":  "Update a book",
	"DELETE /books/{id}": "Delete a book",
	"GET /health":        "Health check",
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(cfg.Logger))
	router.Use(SecurityHeaders())

	var recorder AuditRecorder
	if cfg.Audit != nil {
		recorder = cfg.Audit
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	books := NewBooksController(cfg.Books, cfg.Validator, recorder, cfg.DefaultLimit)

	index := IndexResponse{
		Message:   "Welcome to Book Catalog API",
		Version:   cfg.Version,
		Endpoints: endpoints,
	}
	if cfg.Audit != nil {
		index.Endpoints = make(map[string]string, len(endpoints)+1)
		for k, v := range endpoints {
			index.Endpoints[k] = v
		}
		index.Endpoints["GET /audit/events"] = "Recent catalog changes (type, book_id, limit, offset)"
	}
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, index)
	})

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	router.GET("/books", books.ListBooks)
	router.GET("/books/search", books.SearchBooks)
	router.GET("/books/:id", books.GetBook)
	router.POST("/books", books.CreateBook)
	router.PUT("/books/:id", books.UpdateBook)
	router.PATCH("/books/:id", books.UpdateBook)
	router.DELETE("/books/:id", books.DeleteBook)

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		router.GET("/audit/events", auditController.ListEvents)
	}

	return router
}
