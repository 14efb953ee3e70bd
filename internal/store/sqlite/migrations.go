package sqlite

import "database/sql"

// schema sets up the single documents table. Paths are slash-separated, so
// a prefix index on path serves both child listing and subtree deletion.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
    path TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// runMigrations executes the schema setup. These run on startup to ensure
// the table exists.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
