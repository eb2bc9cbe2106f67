// Package catalog defines the contract of the book catalog: the error kinds
// every store returns, the inputs of each operation, and the Repository
// interface that storage implementations satisfy.
//
// Field shape (length, range) is checked by the validation package before a
// call reaches a Repository. A Repository only enforces identity and the
// (title, author) uniqueness invariant.
//
//	repo := books.NewRepository(db.DB)
//	book, err := repo.Create(ctx, catalog.NewBook{Title: "1984", Author: "George Orwell"})
//	if errors.Is(err, catalog.ErrDuplicateRecord) {
//		// another live record already has this title and author
//	}
package catalog
