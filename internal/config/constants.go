package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./books.db"
)

// Pagination defaults applied by the HTTP layer when a caller omits limit.
const (
	DefaultPageLimit = 100
	DefaultMaxLimit  = 1000
)
