// Package sqlite provides a SQLite-backed implementation of the store.Store
// document store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"gatherly/internal/store"
)

// Ensure DocStore implements store.Store
var _ store.Store = (*DocStore)(nil)

// DocStore implements store.Store with one row per document: the full path
// as primary key and the document JSON as a text column.
type DocStore struct {
	db  *sql.DB
	hub *store.Hub
}

// New creates a DocStore at the given database path. Parent directories are
// created and migrations run automatically.
func New(dbPath string) (*DocStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Serialized writes keep last-write-wins semantics simple
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DocStore{db: db, hub: store.NewHub()}, nil
}

// Close closes the database connection.
func (s *DocStore) Close() error {
	return s.db.Close()
}

// Get reads the document at path into out.
func (s *DocStore) Get(ctx context.Context, path string, out any) error {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM documents WHERE path = ?", path,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// Set writes v as the full document at path and notifies subscribers.
func (s *DocStore) Set(ctx context.Context, path string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (path, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		path, string(value), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.hub.Notify(path)
	return nil
}

// Push stores v under path with a generated key and returns the key.
func (s *DocStore) Push(ctx context.Context, path string, v any) (string, error) {
	key := uuid.New().String()
	if err := s.Set(ctx, path+"/"+key, v); err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes the document at path and everything below it.
func (s *DocStore) Delete(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE path = ? OR path LIKE ?",
		path, path+"/%",
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}

	s.hub.Notify(path)
	return nil
}

// Children returns the direct child documents of path keyed by child name.
func (s *DocStore) Children(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, value FROM documents WHERE path LIKE ? ORDER BY path",
		path+"/%",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", path, err)
	}
	defer rows.Close()

	children := make(map[string]json.RawMessage)
	for rows.Next() {
		var childPath, value string
		if err := rows.Scan(&childPath, &value); err != nil {
			return nil, fmt.Errorf("failed to scan child of %s: %w", path, err)
		}
		name := childPath[len(path)+1:]
		if strings.Contains(name, "/") {
			// Deeper document, not a direct child
			continue
		}
		children[name] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate children of %s: %w", path, err)
	}

	return children, nil
}

// Keys returns the sorted direct child names under path, interior nodes
// included.
func (s *DocStore) Keys(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path FROM documents WHERE path LIKE ?",
		path+"/%",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys of %s: %w", path, err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var childPath string
		if err := rows.Scan(&childPath); err != nil {
			return nil, fmt.Errorf("failed to scan key of %s: %w", path, err)
		}
		name := childPath[len(path)+1:]
		if i := strings.IndexByte(name, '/'); i >= 0 {
			name = name[:i]
		}
		seen[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate keys of %s: %w", path, err)
	}

	keys := make([]string, 0, len(seen))
	for name := range seen {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys, nil
}

// Subscribe registers onChange for writes touching path. See store.Store.
func (s *DocStore) Subscribe(path string, onChange func()) store.CancelFunc {
	return s.hub.Subscribe(path, onChange)
}
