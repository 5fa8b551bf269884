package note

import (
	"strings"
	"time"
)

// SyncStatus marks where a note stands with respect to an external sync
// collaborator. This package only ever writes Pending on its own.
type SyncStatus string

const (
	Synced   SyncStatus = "synced"
	Pending  SyncStatus = "pending"
	Conflict SyncStatus = "conflict"
)

// Valid reports whether s is one of the known statuses.
func (s SyncStatus) Valid() bool {
	switch s {
	case Synced, Pending, Conflict:
		return true
	}
	return false
}

// TimeLayout is the ISO-8601 UTC form used for every timestamp column.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Note is a saved reference to a URL.
type Note struct {
	ID         string     `json:"id"`
	URL        string     `json:"url"`
	Title      *string    `json:"title"`
	Summary    *string    `json:"summary"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	SyncStatus SyncStatus `json:"syncStatus"`
	Version    int        `json:"version"`
	IsDeleted  bool       `json:"isDeleted"`
	DeletedAt  *time.Time `json:"deletedAt"`
}

// HasTags reports whether every tag in want is present on the note.
func (n *Note) HasTags(want []string) bool {
	for _, w := range want {
		found := false
		for _, t := range n.Tags {
			if t == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// NormalizeTags trims each tag and drops the empty ones.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func formatTime(t time.Time) string { return t.UTC().Format(TimeLayout) }

// timeLayouts are tried in order when reading timestamp columns; the later
// ones match SQLite's datetime() and date() output.
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02T15:04:05.999999999", "2006-01-02"}

// parseTime reads a stored timestamp. Text matching no known layout yields
// the zero time and ok false.
func parseTime(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
