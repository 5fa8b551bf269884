package engine

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// DriverName is the database/sql name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options holds per-connection pragmas. They are encoded into the DSN so that
// every connection in the database/sql pool receives them.
type Options struct {
	BusyTimeout time.Duration
	JournalMode string
}

// DSN builds a modernc.org/sqlite DSN for path.
func DSN(path string, opts Options) string {
	var pragmas []string
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("_pragma=busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	}
	if opts.JournalMode != "" {
		pragmas = append(pragmas, "_pragma=journal_mode("+opts.JournalMode+")")
	}
	if len(pragmas) == 0 {
		return path
	}
	if path == MemoryPath {
		return path + "?" + strings.Join(pragmas, "&")
	}
	return "file:" + path + "?" + strings.Join(pragmas, "&")
}

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./notenest.db" or a DSN built
// with DSN. For in-memory databases, pass ":memory:".
func Open(dsn string) (*sql.DB, error) { return sql.Open(DriverName, dsn) }
