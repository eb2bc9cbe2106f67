package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/database/books"
)

// SeedBooks is the sample data inserted by the seed command.
var SeedBooks = []catalog.NewBook{
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Year: year(1925)},
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", Year: year(1960)},
	{Title: "1984", Author: "George Orwell", Year: year(1949)},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Year: year(1813)},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: year(1937)},
}

func year(y int) *int { return &y }

// SeedCommand fills a catalog with sample books. Books already present are
// skipped, so running it twice is harmless.
type SeedCommand struct {
	DatabasePath string
	Verbose      bool
	DryRun       bool
	NoAudit      bool

	Out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{Out: os.Stdout}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print each book as it is processed")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be inserted without making changes")
	fs.BoolVar(&cmd.NoAudit, "no-audit", false, "Do not record the seed run in the audit trail")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Insert %d sample books into the catalog.\n\n", len(SeedBooks))
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed -db ./books.db -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *SeedCommand) Run() error {
	out := cmd.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintln(out, "Seed Catalog")
	fmt.Fprintln(out, "============")

	if cmd.DryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No changes will be made")
		for i, book := range SeedBooks {
			fmt.Fprintf(out, "%d. %q by %s (%d)\n", i+1, book.Title, book.Author, *book.Year)
		}
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	fmt.Fprintf(out, "Database: %s\n", cmd.DatabasePath)

	db, err := database.NewDatabase(cmd.DatabasePath, database.WithLogLevel("silent"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := books.NewRepository(db.DB)

	var created, skipped int
	for _, input := range SeedBooks {
		book, err := repo.Create(ctx, input)
		switch {
		case errors.Is(err, catalog.ErrDuplicateRecord):
			skipped++
			if cmd.Verbose {
				fmt.Fprintf(out, "  [SKIP] %q by %s already exists\n", input.Title, input.Author)
			}
		case err != nil:
			return fmt.Errorf("failed to insert %q: %w", input.Title, err)
		default:
			created++
			if cmd.Verbose {
				fmt.Fprintf(out, "  [OK] %d: %s\n", book.ID, book.String())
			}
		}
	}

	if !cmd.NoAudit {
		audit.NewService(auditRepo.NewRepository(db.DB), zerolog.Nop()).BooksSeeded(ctx, created, skipped)
	}

	fmt.Fprintln(out, "\n=== Seed Summary ===")
	fmt.Fprintf(out, "Books created: %d\n", created)
	fmt.Fprintf(out, "Already present: %d\n", skipped)

	return nil
}
