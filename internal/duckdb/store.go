package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/tinytelemetry/tudu/internal/duckdb/migrate"
	"github.com/tinytelemetry/tudu/internal/model"
)

// Store keeps todos in a DuckDB database, on disk or in memory.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	path    string
	timeout time.Duration
}

var _ model.TodoStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithQueryTimeout bounds every statement the store runs. Non-positive
// values keep model.DefaultQueryTimeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewStore opens the todo database at path and brings its schema up to
// date. An empty path gives a private in-memory database.
func NewStore(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, timeout: model.DefaultQueryTimeout}
	for _, opt := range opts {
		opt(s)
	}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("duckdb: create data dir: %w", err)
		}
	}

	connector, err := duckdb.NewConnector(path, nil)
	if err != nil {
		return nil, fmt.Errorf("duckdb: open %q: %w", path, err)
	}
	s.db = sql.OpenDB(connector)

	if err := migrate.NewRunner(s.db).Run(); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("duckdb: migrate: %w", err)
	}
	return s, nil
}

// Path is the database file, or "" for an in-memory store.
func (s *Store) Path() string { return s.path }

// Close releases the database. Pending snapshots must finish first.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// DB exposes the handle for maintenance statements in tests.
func (s *Store) DB() *sql.DB { return s.db }
