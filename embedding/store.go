package embedding

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viant/notenest/codec"
)

// Acquirer hands out the shared database handle.
type Acquirer interface {
	Acquire(ctx context.Context) (*sql.DB, error)
}

const upsertSQL = `INSERT INTO embeddings (note_id, vector) VALUES (?, ?)
ON CONFLICT(note_id) DO UPDATE SET vector = excluded.vector`

const searchSQL = `SELECT note_id, score FROM (
  SELECT e.note_id AS note_id, vec_cosine(e.vector, ?) AS score
  FROM embeddings e JOIN notes n ON n.id = e.note_id
  WHERE n.is_deleted = 0
) WHERE score IS NOT NULL
ORDER BY score DESC, note_id
LIMIT ?`

// Embedding pairs a note id with its vector.
type Embedding struct {
	NoteID string    `json:"noteId"`
	Vector []float64 `json:"vector"`
}

// Match is one Search result.
type Match struct {
	NoteID string  `json:"noteId"`
	Score  float64 `json:"score"`
}

// Store reads and writes embeddings.
type Store struct {
	conn Acquirer
}

// NewStore creates a Store over conn.
func NewStore(conn Acquirer) *Store {
	return &Store{conn: conn}
}

// Upsert inserts or replaces the vector for noteID.
func (s *Store) Upsert(ctx context.Context, noteID string, vector []float64) error {
	if noteID == "" {
		return fmt.Errorf("embedding: note id is empty")
	}
	text, err := codec.EncodeVector(vector)
	if err != nil {
		return err
	}
	db, err := s.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, upsertSQL, noteID, text)
	return err
}

// UpsertAll writes every embedding in one transaction; either all are
// stored or none.
func (s *Store) UpsertAll(ctx context.Context, embeddings []Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	texts := make([]string, len(embeddings))
	for i, e := range embeddings {
		if e.NoteID == "" {
			return fmt.Errorf("embedding: note id is empty at %d", i)
		}
		text, err := codec.EncodeVector(e.Vector)
		if err != nil {
			return fmt.Errorf("embedding: %s: %w", e.NoteID, err)
		}
		texts[i] = text
	}
	db, err := s.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, e := range embeddings {
		if _, err := stmt.ExecContext(ctx, e.NoteID, texts[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns the vector stored for noteID. ok is false when there is no
// row. Malformed stored text yields an empty vector with ok set.
func (s *Store) Get(ctx context.Context, noteID string) (vector []float64, ok bool, err error) {
	db, err := s.conn.Acquire(ctx)
	if err != nil {
		return nil, false, err
	}
	var text string
	err = db.QueryRowContext(ctx, `SELECT vector FROM embeddings WHERE note_id = ?`, noteID).Scan(&text)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return codec.DecodeVector(text), true, nil
}

// Search ranks the embeddings of notes that are not soft-deleted by cosine
// similarity to query, highest first, and returns at most k of them (k <= 0
// returns all). Vectors that cannot be compared with query are left out.
func (s *Store) Search(ctx context.Context, query []float64, k int) ([]Match, error) {
	if len(query) == 0 {
		return []Match{}, nil
	}
	text, err := codec.EncodeVector(query)
	if err != nil {
		return nil, err
	}
	db, err := s.conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	limit := k
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, searchSQL, text, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Match{}
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.NoteID, &m.Score); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
