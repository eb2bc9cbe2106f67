// Package database provides the data access layer for the catalog.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, pragmas, migrations
//	├── errors.go        # sqlite constraint error classification
//	├── books/           # Book Catalog Repository (catalog.Repository)
//	└── audit/           # Audit event persistence
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./books.db", database.WithLogLevel("warn"))
//	booksRepo := books.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
// Every repository receives the *gorm.DB handle explicitly; nothing in this
// package keeps global state, so independent catalogs can be opened side by
// side (tests do this with one file per test).
package database
