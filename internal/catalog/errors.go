package catalog

import "errors"

// Error kinds returned by catalog operations. Implementations wrap them with
// context, so callers must test with errors.Is.
var (
	ErrNotFound        = errors.New("book not found")
	ErrDuplicateRecord = errors.New("book with this title and author already exists")
	ErrInvalidInput    = errors.New("invalid input")
)
