package note

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/viant/notenest/codec"
)

// Acquirer hands out the shared database handle.
type Acquirer interface {
	Acquire(ctx context.Context) (*sql.DB, error)
}

const upsertSQL = `INSERT INTO notes (id, url, title, summary, tags, created_at, updated_at, sync_status, version, is_deleted, deleted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  url = excluded.url,
  title = excluded.title,
  summary = excluded.summary,
  tags = excluded.tags,
  updated_at = excluded.updated_at,
  sync_status = excluded.sync_status,
  version = excluded.version,
  is_deleted = excluded.is_deleted,
  deleted_at = excluded.deleted_at`

const selectSQL = `SELECT id, url, title, summary, tags, created_at, updated_at, sync_status, version, is_deleted, deleted_at FROM notes`

// Filter narrows Store.Query.
type Filter struct {
	// Tags lists tags that must all be present on a note.
	Tags []string
	// Text matches notes whose title or summary contains it, ignoring ASCII
	// case.
	Text string
	// Limit caps the result size; zero or less means no cap.
	Limit int
	// Offset skips that many matching notes.
	Offset int
}

// Store reads and writes notes.
type Store struct {
	conn Acquirer
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a Store over conn.
func NewStore(conn Acquirer, opts ...Option) *Store {
	s := &Store{conn: conn, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert inserts the note or, when the id exists, overwrites every column
// but created_at. Engine errors such as a missing URL are returned as is.
func (s *Store) Upsert(ctx context.Context, u Upsert) error {
	if err := u.validate(); err != nil {
		return err
	}
	db, err := s.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, upsertSQL, u.args(s.now())...)
	return err
}

// List returns every note that is not soft-deleted, most recently updated
// first.
func (s *Store) List(ctx context.Context) ([]Note, error) {
	return s.Query(ctx, Filter{})
}

// Query is List with tag filtering and paging applied.
func (s *Store) Query(ctx context.Context, f Filter) ([]Note, error) {
	db, err := s.conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	tags := NormalizeTags(f.Tags)
	query := selectSQL + ` WHERE is_deleted = 0`
	var args []interface{}
	if text := strings.TrimSpace(f.Text); text != "" {
		query += ` AND (COALESCE(title, '') || ' ' || COALESCE(summary, '')) LIKE ? ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(text)+"%")
	}
	query += ` ORDER BY updated_at DESC, id`
	if len(tags) == 0 && (f.Limit > 0 || f.Offset > 0) {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, sqlLimit(f.Limit), max(f.Offset, 0))
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Note{}
	skipped := 0
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		if len(tags) > 0 {
			if !n.HasTags(tags) {
				continue
			}
			if skipped < f.Offset {
				skipped++
				continue
			}
			if f.Limit > 0 && len(out) >= f.Limit {
				break
			}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the note with id unless it is missing or soft-deleted, in
// which case ok is false.
func (s *Store) Get(ctx context.Context, id string) (n Note, ok bool, err error) {
	if id == "" {
		return Note{}, false, fmt.Errorf("note: id is empty")
	}
	db, err := s.conn.Acquire(ctx)
	if err != nil {
		return Note{}, false, err
	}
	n, err = scanNote(db.QueryRowContext(ctx, selectSQL+` WHERE id = ? AND is_deleted = 0`, id))
	if err == sql.ErrNoRows {
		return Note{}, false, nil
	}
	if err != nil {
		return Note{}, false, err
	}
	return n, true, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(r scanner) (Note, error) {
	var (
		n                     Note
		title, summary, tags  sql.NullString
		createdAt, updatedAt  string
		syncStatus, deletedAt sql.NullString
		version, isDeleted    sql.NullInt64
	)
	if err := r.Scan(&n.ID, &n.URL, &title, &summary, &tags, &createdAt, &updatedAt, &syncStatus, &version, &isDeleted, &deletedAt); err != nil {
		return Note{}, err
	}
	// unparseable timestamps read as the zero time
	n.CreatedAt, _ = parseTime(createdAt)
	n.UpdatedAt, _ = parseTime(updatedAt)
	if deletedAt.Valid {
		if t, ok := parseTime(deletedAt.String); ok {
			n.DeletedAt = &t
		}
	}
	if title.Valid {
		n.Title = &title.String
	}
	if summary.Valid {
		n.Summary = &summary.String
	}
	n.Tags = codec.DecodeTags(tags.String)
	n.SyncStatus = Synced
	if syncStatus.Valid {
		n.SyncStatus = SyncStatus(syncStatus.String)
	}
	n.Version = 1
	if version.Valid {
		n.Version = int(version.Int64)
	}
	n.IsDeleted = isDeleted.Valid && isDeleted.Int64 != 0
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
