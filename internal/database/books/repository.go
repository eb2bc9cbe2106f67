// Package books provides the Book Catalog Repository on top of gorm.
//
// This package implements catalog.Repository.
//
// # Interface Implementation
//
//	var _ catalog.Repository = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.Get(ctx, 1)
package books

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository owns the books table. Each method runs in its own transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new book and returns it with its assigned ID.
func (r *Repository) Create(ctx context.Context, input catalog.NewBook) (*entities.Book, error) {
	book := entities.Book{
		Title:  input.Title,
		Author: input.Author,
	}
	if input.Year != nil {
		year := *input.Year
		book.Year = &year
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := pairTaken(tx, book.Title, book.Author, 0)
		if err != nil {
			return err
		}
		if taken {
			return catalog.ErrDuplicateRecord
		}
		return tx.Create(&book).Error
	})
	if err != nil {
		return nil, translate(err, "create book")
	}
	return &book, nil
}

// Get retrieves a book by its ID.
func (r *Repository) Get(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, translateID(err, id)
	}
	return &book, nil
}

// List returns books matching filter in ascending ID order, windowed by page.
func (r *Repository) List(ctx context.Context, filter catalog.Filter, page catalog.Page) ([]entities.Book, error) {
	return r.find(ctx, filter, page)
}

// Search is List under a second name; both share one query path.
func (r *Repository) Search(ctx context.Context, filter catalog.Filter, page catalog.Page) ([]entities.Book, error) {
	return r.find(ctx, filter, page)
}

// Update applies the supplied fields of update to the book with the given ID.
// The (title, author) pair is checked against every other live record.
func (r *Repository) Update(ctx context.Context, id uint, update catalog.BookUpdate) (*entities.Book, error) {
	_, after, err := r.UpdateWithPrevious(ctx, id, update)
	return after, err
}

// UpdateWithPrevious is Update that also returns the record as it was when
// the transaction read it.
func (r *Repository) UpdateWithPrevious(ctx context.Context, id uint, update catalog.BookUpdate) (*entities.Book, *entities.Book, error) {
	var before, book entities.Book

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&before, id).Error; err != nil {
			return err
		}

		book = update.Apply(before)
		if update.IsEmpty() {
			return nil
		}

		if book.Title != before.Title || book.Author != before.Author {
			taken, err := pairTaken(tx, book.Title, book.Author, id)
			if err != nil {
				return err
			}
			if taken {
				return catalog.ErrDuplicateRecord
			}
		}

		return tx.Model(&entities.Book{ID: id}).
			Select("title", "author", "year").
			Updates(&book).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, translateID(err, id)
		}
		return nil, nil, translate(err, fmt.Sprintf("update book %d", id))
	}
	return &before, &book, nil
}

// Delete permanently removes the book with the given ID.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete book %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("book with ID %d: %w", id, catalog.ErrNotFound)
		}
		return nil
	})
}

// Count returns the number of books matching filter.
func (r *Repository) Count(ctx context.Context, filter catalog.Filter) (int64, error) {
	var total int64
	err := applyFilter(r.db.WithContext(ctx).Model(&entities.Book{}), filter).Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}

func (r *Repository) find(ctx context.Context, filter catalog.Filter, page catalog.Page) ([]entities.Book, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	books := []entities.Book{}
	if page.Limit == 0 {
		return books, nil
	}

	err := applyFilter(r.db.WithContext(ctx), filter).
		Order("id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func applyFilter(query *gorm.DB, filter catalog.Filter) *gorm.DB {
	if filter.Title != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?) ESCAPE '\\'", containsPattern(filter.Title))
	}
	if filter.Author != "" {
		query = query.Where("LOWER(author) LIKE LOWER(?) ESCAPE '\\'", containsPattern(filter.Author))
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// pairTaken reports whether a book other than exceptID has this exact
// (case-sensitive) title and author.
func pairTaken(tx *gorm.DB, title, author string, exceptID uint) (bool, error) {
	var count int64
	query := tx.Model(&entities.Book{}).Where("title = ? AND author = ?", title, author)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check title and author: %w", err)
	}
	return count > 0, nil
}

func translate(err error, op string) error {
	switch {
	case errors.Is(err, catalog.ErrDuplicateRecord):
		return err
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, catalog.ErrDuplicateRecord)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func translateID(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("book with ID %d: %w", id, catalog.ErrNotFound)
	}
	return fmt.Errorf("get book %d: %w", id, err)
}
