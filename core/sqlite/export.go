package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/FocuswithJustin/ChurchProjection/core/books"
	"github.com/FocuswithJustin/ChurchProjection/core/errors"
	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
)

const schema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE books (
	id           INTEGER PRIMARY KEY,
	name         TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	testament    TEXT,
	canonical    INTEGER NOT NULL
);
CREATE TABLE verses (
	book_id INTEGER NOT NULL REFERENCES books(id),
	chapter INTEGER NOT NULL,
	verse   INTEGER NOT NULL,
	text    TEXT NOT NULL,
	PRIMARY KEY (book_id, chapter, verse)
);
`

// ExportStats summarizes an export.
type ExportStats struct {
	Version string `json:"version"`
	Path    string `json:"path"`
	Books   int    `json:"books"`
	Verses  int    `json:"verses"`
}

// Export writes one loaded version to a new SQLite database at path. An
// existing file at path is replaced. Books keep their canonical order as
// their row id.
func Export(ctx context.Context, store *scripture.Store, version, path string) (ExportStats, error) {
	stats := ExportStats{Version: version, Path: path}

	bible, ok := store.Snapshot().Bible(version)
	if !ok {
		return stats, errors.NewNotFound("version", version)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return stats, errors.NewIO("remove", path, err)
	}
	db, err := Open(path)
	if err != nil {
		return stats, errors.NewIO("open", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return stats, errors.Wrap(err, "begin export")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return stats, errors.Wrap(err, "create schema")
	}
	if err := writeMeta(ctx, tx, bible); err != nil {
		return stats, err
	}

	bookIDs := make(map[string]int64)
	insertBook, err := tx.PrepareContext(ctx,
		`INSERT INTO books (id, name, display_name, testament, canonical) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return stats, errors.Wrap(err, "prepare books")
	}
	defer insertBook.Close()

	for i, name := range bible.Books() {
		id := int64(i + 1)
		var testament sql.NullString
		canonical := 0
		if b, ok := books.Lookup(name); ok {
			testament = sql.NullString{String: b.Testament.String(), Valid: true}
			canonical = 1
		}
		if _, err := insertBook.ExecContext(ctx, id, name, bible.DisplayName(name), testament, canonical); err != nil {
			return stats, errors.Wrapf(err, "insert book %s", name)
		}
		bookIDs[name] = id
		stats.Books++
	}

	insertVerse, err := tx.PrepareContext(ctx,
		`INSERT INTO verses (book_id, chapter, verse, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return stats, errors.Wrap(err, "prepare verses")
	}
	defer insertVerse.Close()

	var walkErr error
	bible.Walk(func(book string, chapter, verse int, text string) bool {
		if walkErr = ctx.Err(); walkErr != nil {
			return false
		}
		if _, walkErr = insertVerse.ExecContext(ctx, bookIDs[book], chapter, verse, text); walkErr != nil {
			walkErr = errors.Wrapf(walkErr, "insert %s %d:%d", book, chapter, verse)
			return false
		}
		stats.Verses++
		return true
	})
	if walkErr != nil {
		return stats, walkErr
	}

	if err := tx.Commit(); err != nil {
		return stats, errors.Wrap(err, "commit export")
	}
	return stats, nil
}

func writeMeta(ctx context.Context, tx *sql.Tx, bible *scripture.Bible) error {
	var paths, hashes []string
	for _, src := range bible.Sources() {
		paths = append(paths, src.Path)
		hashes = append(hashes, src.BLAKE3)
	}
	meta := [][2]string{
		{"version", bible.ID()},
		{"exported_at", time.Now().UTC().Format(time.RFC3339)},
		{"sources", strings.Join(paths, "\n")},
		{"blake3", strings.Join(hashes, "\n")},
		{"driver", DriverType()},
	}
	for _, kv := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return errors.Wrapf(err, "insert meta %s", kv[0])
		}
	}
	return nil
}

// Verify reopens an exported database read-only and checks that it holds
// version with the expected number of verses.
func Verify(ctx context.Context, path string, want ExportStats) error {
	db, err := OpenReadOnly(path)
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	defer db.Close()

	var version string
	if err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'version'`).Scan(&version); err != nil {
		return errors.Wrapf(err, "read meta of %s", path)
	}
	var books, verses int
	if err := db.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM books), (SELECT COUNT(*) FROM verses)`).Scan(&books, &verses); err != nil {
		return errors.Wrapf(err, "count rows of %s", path)
	}
	if version != want.Version || books != want.Books || verses != want.Verses {
		return errors.NewValidation("export",
			fmt.Sprintf("%s holds %s with %d books, %d verses; want %s with %d books, %d verses",
				path, version, books, verses, want.Version, want.Books, want.Verses))
	}
	return nil
}
