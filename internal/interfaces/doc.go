// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - catalog.Repository: the Book Catalog Repository (internal/catalog/catalog.go)
//   - http.HealthChecker: store reachability for /health (internal/http/stores.go)
//
// ## Request Handling Interfaces
//
//   - http.BookValidator: shape checks before the store is called (internal/http/stores.go)
//
// ## Audit Interfaces
//
//   - http.AuditRecorder / http.AuditReader: mutation trail (internal/http/stores.go)
//   - scheduler.Cleaner: retention pruning (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Catalog Backend
//
// To store books somewhere other than SQLite:
//
//  1. Create sub-package: internal/database/<backend>/
//
//  2. Implement catalog.Repository. Every method must be atomic, report
//     catalog.ErrNotFound and catalog.ErrDuplicateRecord through error
//     wrapping, and return books the caller owns:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add compile-time check:
//
//     var _ catalog.Repository = (*Repository)(nil)
//
//  4. Wire it in entrypoint.go through RouterConfig.Books
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
