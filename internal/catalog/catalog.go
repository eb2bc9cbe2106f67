package catalog

import (
	"context"
	"fmt"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// NewBook holds the fields supplied to Create. Year is nil when unknown.
type NewBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   *int   `json:"year"`
}

// BookUpdate is a partial update. Absent fields leave the stored value as is;
// Year set to nil clears the year.
type BookUpdate struct {
	Title  Optional[string] `json:"title"`
	Author Optional[string] `json:"author"`
	Year   Optional[*int]   `json:"year"`
}

// IsEmpty reports whether no field was supplied.
func (u BookUpdate) IsEmpty() bool {
	return !u.Title.IsSet() && !u.Author.IsSet() && !u.Year.IsSet()
}

// Apply returns a copy of book with the supplied fields replaced.
func (u BookUpdate) Apply(book entities.Book) entities.Book {
	book.Title = u.Title.OrElse(book.Title)
	book.Author = u.Author.OrElse(book.Author)
	if year, ok := u.Year.Get(); ok {
		book.Year = copyYear(year)
	}
	return book
}

// Filter narrows List and Search. Empty strings and a nil Year match all.
// Title and Author are case-insensitive substring matches; Year is exact.
type Filter struct {
	Title  string
	Author string
	Year   *int
}

// IsEmpty reports whether the filter matches every record.
func (f Filter) IsEmpty() bool {
	return f.Title == "" && f.Author == "" && f.Year == nil
}

// Page windows an ordered result: Skip records are dropped from the front,
// then at most Limit are returned.
type Page struct {
	Skip  int
	Limit int
}

// Validate rejects negative bounds.
func (p Page) Validate() error {
	if p.Skip < 0 {
		return fmt.Errorf("skip must be >= 0, got %d: %w", p.Skip, ErrInvalidInput)
	}
	if p.Limit < 0 {
		return fmt.Errorf("limit must be >= 0, got %d: %w", p.Limit, ErrInvalidInput)
	}
	return nil
}

// Repository is the Book Catalog Repository. Every method is an atomic unit
// of work; a failed call leaves the collection unchanged. Returned books are
// copies owned by the caller.
type Repository interface {
	Create(ctx context.Context, book NewBook) (*entities.Book, error)
	Get(ctx context.Context, id uint) (*entities.Book, error)
	List(ctx context.Context, filter Filter, page Page) ([]entities.Book, error)
	Search(ctx context.Context, filter Filter, page Page) ([]entities.Book, error)
	Update(ctx context.Context, id uint, update BookUpdate) (*entities.Book, error)
	Delete(ctx context.Context, id uint) error
}

func copyYear(year *int) *int {
	if year == nil {
		return nil
	}
	y := *year
	return &y
}
