// Package catalog is the queryable metadata index over filing records.
//
// The catalog interprets nothing: it stores whatever shape a filing
// declares, compiles query expressions into parameterized SQL, and hands
// reconstruction back to the resolver it was configured with. Domain
// meaning stays in the filing package.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/finohq/finofiling/internal/filing"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - pre-versioning databases (before the format column existed)
// 1 - format column present
const currentSchemaVersion = 1

// Catalog is a SQLite-backed metadata index. One row per filing id;
// re-indexing an id replaces the whole record.
type Catalog struct {
	db       *sql.DB
	resolver *filing.Resolver
}

// Option configures catalog construction.
type Option func(*Catalog)

// WithResolver sets the resolver used to reconstruct concrete filing
// shapes from stored rows. Defaults to filing.DefaultResolver().
func WithResolver(r *filing.Resolver) Option {
	return func(c *Catalog) {
		c.resolver = r
	}
}

// Open creates or opens a catalog database at the given path and applies
// pragmas and migrations. Idempotent - safe to call on an existing file.
//
// The database is configured with WAL mode for concurrent reads, NORMAL
// synchronous mode, a 5-second busy timeout, and a single-writer
// connection pool (SQLite allows one writer at a time).
func Open(path string, opts ...Option) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	c := &Catalog{db: db, resolver: filing.DefaultResolver()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV1 adds the format column for databases created before it
// existed. New databases get the column from schema.sql.
func migrateToV1(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(filings)")
	if err != nil {
		return fmt.Errorf("migrate to v1: table_info: %w", err)
	}
	defer rows.Close()

	hasFormat := false
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("migrate to v1: scan: %w", err)
		}
		if name == "format" {
			hasFormat = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}

	if !hasFormat {
		if _, err := db.Exec("ALTER TABLE filings ADD COLUMN format TEXT"); err != nil {
			return fmt.Errorf("migrate to v1: add format column: %w", err)
		}
	}
	return nil
}

// Clear removes all records from the catalog.
func (c *Catalog) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM filings"); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	return nil
}

// Stats summarizes the catalog contents.
type Stats struct {
	Total    int64
	Sources  int64
	Earliest string
	Latest   string
}

// Stats returns record counts and the created_at range.
func (c *Catalog) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	var earliest, latest sql.NullString
	err := c.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT source), MIN(created_at), MAX(created_at)
		FROM filings
	`).Scan(&s.Total, &s.Sources, &earliest, &latest)
	if err != nil {
		return Stats{}, fmt.Errorf("catalog stats: %w", err)
	}
	s.Earliest = earliest.String
	s.Latest = latest.String
	return s, nil
}
