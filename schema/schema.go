// Package schema provisions the persistent structures of the note store:
// the notes table, the embeddings table and the ordering indexes.
package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// NotesTable holds one row per saved URL. sync_status defaults to 'synced'
// at the storage level; note.Store writes 'pending' when the caller does not
// choose a status.
const NotesTable = `
CREATE TABLE IF NOT EXISTS notes (
  id TEXT PRIMARY KEY,
  url TEXT NOT NULL,
  title TEXT,
  summary TEXT,
  tags TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  sync_status TEXT DEFAULT 'synced',
  version INTEGER DEFAULT 1,
  is_deleted INTEGER DEFAULT 0,
  deleted_at TEXT
);
`

// EmbeddingsTable holds at most one vector per note. The foreign key is
// declarative only: foreign_keys enforcement is not enabled on connections,
// and nothing cascades.
const EmbeddingsTable = `
CREATE TABLE IF NOT EXISTS embeddings (
  note_id TEXT PRIMARY KEY,
  vector TEXT NOT NULL,
  FOREIGN KEY (note_id) REFERENCES notes(id)
);
`

const (
	// UpdatedAtIndex backs the most-recently-touched ordering.
	UpdatedAtIndex = `CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at);`
	// CreatedAtIndex backs creation-time ordering.
	CreatedAtIndex = `CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at);`
)

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Statements returns the provisioning DDL in execution order.
func Statements() []string {
	return []string{NotesTable, EmbeddingsTable, UpdatedAtIndex, CreatedAtIndex}
}

// Provision creates the tables and indexes that do not exist yet. It never
// drops or alters existing structures, so it is safe to run on every start.
func Provision(ctx context.Context, db Execer) error {
	if db == nil {
		return fmt.Errorf("schema: db is nil")
	}
	for _, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
