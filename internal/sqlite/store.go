// Package sqlite implements the relational store for the metamodel:
// one repository per definition and instance kind, the attribute-assembly
// fan-in query, and the translation of store constraint violations into the
// domain error taxonomy.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DBFileName is the SQLite database file created inside the data directory.
const DBFileName = "metastore.db"

// Store owns the database handle shared by all repositories.
// The store's transaction isolation is the only concurrency guard;
// repositories never hold in-process state between calls.
type Store struct {
	db  *sqlx.DB
	log zerolog.Logger
}

// Open creates the data directory if needed, opens (or creates) the database
// file, enables foreign-key enforcement, and applies the schema.
func Open(dataDir string, logger zerolog.Logger) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dsn := filepath.Join(dataDir, DBFileName) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db, log: logger}, nil
}

// Close releases the database handle. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// BeginTxx starts a transaction for multi-repository units of work.
func (s *Store) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, nil)
}

// NewID generates an opaque, globally unique identifier (UUID v7).
// Callers never supply ids on create.
func (s *Store) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}
