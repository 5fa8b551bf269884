package note

import (
	"fmt"
	"time"

	"github.com/viant/notenest/codec"
)

// Upsert is the complete row written by Store.Upsert.
//
// Zero values stand for defaults: a nil Title or Summary writes NULL, nil
// Tags writes an empty list, an empty SyncStatus writes Pending, a zero
// Version writes 1, a zero CreatedAt writes the current time (used only when
// the row is new). UpdatedAt is not part of the input; every write stamps it.
// A non-empty SyncStatus must be a known status and Version must not be
// negative.
type Upsert struct {
	ID         string
	URL        string
	Title      *string
	Summary    *string
	Tags       []string
	CreatedAt  time.Time
	SyncStatus SyncStatus
	Version    int
	IsDeleted  bool
	DeletedAt  *time.Time
}

// New starts an Upsert for a note with every optional field at its default.
func New(id, url string) Upsert {
	return Upsert{ID: id, URL: url}
}

// From carries every stored field of n forward, so that a subsequent write
// changes only what the caller sets afterwards.
func From(n Note) Upsert {
	u := Upsert{
		ID:         n.ID,
		URL:        n.URL,
		Title:      n.Title,
		Summary:    n.Summary,
		Tags:       append([]string(nil), n.Tags...),
		CreatedAt:  n.CreatedAt,
		SyncStatus: n.SyncStatus,
		Version:    n.Version,
		IsDeleted:  n.IsDeleted,
	}
	if n.DeletedAt != nil {
		t := *n.DeletedAt
		u.DeletedAt = &t
	}
	return u
}

// WithTitle returns a copy with Title set.
func (u Upsert) WithTitle(title string) Upsert {
	u.Title = &title
	return u
}

// WithSummary returns a copy with Summary set.
func (u Upsert) WithSummary(summary string) Upsert {
	u.Summary = &summary
	return u
}

// WithTags returns a copy with Tags set.
func (u Upsert) WithTags(tags ...string) Upsert {
	u.Tags = append([]string(nil), tags...)
	return u
}

func (u Upsert) validate() error {
	if u.ID == "" {
		return fmt.Errorf("note: id is empty")
	}
	if u.SyncStatus != "" && !u.SyncStatus.Valid() {
		return fmt.Errorf("note: invalid sync status %q", u.SyncStatus)
	}
	if u.Version < 0 {
		return fmt.Errorf("note: invalid version %d", u.Version)
	}
	return nil
}

// args resolves defaults and returns the bind values in upsertSQL order.
func (u Upsert) args(now time.Time) []interface{} {
	var url interface{}
	// empty URL is bound as NULL so that the NOT NULL constraint reports it
	if u.URL != "" {
		url = u.URL
	}
	createdAt := now
	if !u.CreatedAt.IsZero() {
		createdAt = u.CreatedAt
	}
	status := u.SyncStatus
	if status == "" {
		status = Pending
	}
	version := u.Version
	if version == 0 {
		version = 1
	}
	isDeleted := 0
	if u.IsDeleted {
		isDeleted = 1
	}
	var deletedAt interface{}
	if u.DeletedAt != nil {
		deletedAt = formatTime(*u.DeletedAt)
	}
	return []interface{}{
		u.ID,
		url,
		u.Title,
		u.Summary,
		codec.EncodeTags(u.Tags),
		formatTime(createdAt),
		formatTime(now),
		string(status),
		version,
		isDeleted,
		deletedAt,
	}
}
