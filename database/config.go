package database

import "time"

const (
	// DefaultPath is the fixed file name of the note database.
	DefaultPath = "notenest.db"
	// DefaultBusyTimeout bounds how long a statement waits on a locked database.
	DefaultBusyTimeout = 5 * time.Second
	// DefaultMaxOpenConns keeps a few readers alongside the single WAL writer.
	DefaultMaxOpenConns = 4
)

// Config describes where and how the database file is opened.
type Config struct {
	// Path is the database file, or ":memory:" for a private in-memory database.
	Path string `yaml:"path" validate:"required"`

	// BusyTimeout is applied to every pooled connection; zero disables it.
	BusyTimeout time.Duration `yaml:"busyTimeout" validate:"gte=0"`

	// MaxOpenConns caps the database/sql pool; zero leaves it unlimited.
	MaxOpenConns int `yaml:"maxOpenConns" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Path:         DefaultPath,
		BusyTimeout:  DefaultBusyTimeout,
		MaxOpenConns: DefaultMaxOpenConns,
	}
}
