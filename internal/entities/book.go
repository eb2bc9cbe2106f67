package entities

import "fmt"

// Book is a single catalog record. Title and author together are unique.
type Book struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title  string `gorm:"not null;size:200;index;uniqueIndex:idx_books_title_author" json:"title"`
	Author string `gorm:"not null;size:100;index;uniqueIndex:idx_books_title_author" json:"author"`
	Year   *int   `json:"year"`
}

func (Book) TableName() string {
	return "books"
}

func (b Book) String() string {
	if b.Year == nil {
		return fmt.Sprintf("%q by %s", b.Title, b.Author)
	}
	return fmt.Sprintf("%q by %s (%d)", b.Title, b.Author, *b.Year)
}
