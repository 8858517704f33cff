// Package kb implements the uniform polymorphic entity-access layer of
// Satchel: a fixed set of entity kinds (people, projects, sprints,
// tasks, memories, and notes attached to people/projects/sprints)
// reached through one operation surface instead of one endpoint per
// resource.
//
// The persistent store is a relational database behind a narrow
// adapter: SQLite by default, PostgreSQL when configured. The layer is
// request-scoped and stateless between calls — no cache, no background
// work, no shared mutable state beyond the database itself.
package kb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Backend names accepted by Config.Backend.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds store configuration.
type Config struct {
	// Backend selects the storage technology: "sqlite" (default) or
	// "postgres".
	Backend string
	// DataDir holds the SQLite database file (sqlite backend only).
	DataDir string
	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string
	// SearchLimit caps search results when the caller gives no limit.
	SearchLimit int
	// TaskLimit caps task listings when the caller gives no limit.
	TaskLimit int
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Backend:     BackendSQLite,
		DataDir:     filepath.Join(home, ".satchel"),
		SearchLimit: 20,
		TaskLimit:   50,
	}
}

// Store is the entity-access layer over the relational backend.
type Store struct {
	db  *sql.DB
	d   dialect
	cfg Config
}

// New opens the configured backend, validates the kind registry, and
// runs the idempotent schema migration.
func New(cfg Config) (*Store, error) {
	if err := validateRegistry(); err != nil {
		return nil, fmt.Errorf("kb: registry: %w", err)
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 20
	}
	if cfg.TaskLimit <= 0 {
		cfg.TaskLimit = 50
	}

	var (
		db  *sql.DB
		d   dialect
		err error
	)
	switch cfg.Backend {
	case "", BackendSQLite:
		d = sqliteDialect()
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("kb: create data dir: %w", err)
		}
		db, err = openDB(d.driver, filepath.Join(cfg.DataDir, "satchel.db"))
		if err != nil {
			return nil, fmt.Errorf("kb: open database: %w", err)
		}
		pragmas := []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA busy_timeout = 5000",
			"PRAGMA synchronous = NORMAL",
		}
		for _, p := range pragmas {
			if _, err := db.Exec(p); err != nil {
				return nil, fmt.Errorf("kb: pragma %q: %w", p, err)
			}
		}
	case BackendPostgres:
		d = postgresDialect()
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("kb: postgres backend requires a DSN")
		}
		db, err = openDB(d.driver, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("kb: open database: %w", err)
		}
	default:
		return nil, fmt.Errorf("kb: unknown backend %q", cfg.Backend)
	}

	s := &Store{db: db, d: d, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("kb: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(s.d.schema)
	return err
}

// isUniqueViolation reports whether the store signalled a unique
// constraint violation (duplicate name/slug).
func (s *Store) isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
