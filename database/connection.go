package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/viant/notenest/engine"
	"github.com/viant/notenest/schema"
	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by Acquire after Close.
var ErrClosed = errors.New("database: connection closed")

const journalMode = "WAL"

// Connection lazily opens and caches a single *sql.DB.
type Connection struct {
	cfg       Config
	logger    *slog.Logger
	provision Provisioner

	group singleflight.Group

	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// New returns a Connection for cfg. Nothing is opened until Acquire.
func New(cfg Config, opts ...Option) *Connection {
	c := &Connection{
		cfg:    cfg,
		logger: slog.Default(),
		provision: func(ctx context.Context, db *sql.DB) error {
			return schema.Provision(ctx, db)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the configured database path.
func (c *Connection) Path() string { return c.cfg.Path }

// Acquire returns the shared handle, opening and provisioning it on first
// use. A failed open is not cached; the next Acquire tries again.
//
// The shared open ignores ctx cancellation. A caller whose ctx ends stops
// waiting with ctx.Err() while the open continues for the other callers.
func (c *Connection) Acquire(ctx context.Context) (*sql.DB, error) {
	if db, err := c.cached(); db != nil || err != nil {
		return db, err
	}
	openCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("open", func() (interface{}, error) {
		if db, err := c.cached(); db != nil || err != nil {
			return db, err
		}
		db, err := c.open(openCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			_ = db.Close()
			return nil, ErrClosed
		}
		c.db = db
		return db, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*sql.DB), nil
	}
}

// Close closes the handle if it was opened. Later Acquire calls fail with
// ErrClosed.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Connection) cached() (*sql.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}
	return c.db, nil
}

func (c *Connection) open(ctx context.Context) (*sql.DB, error) {
	path := c.cfg.Path
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database: path is empty")
	}
	if err := engine.RegisterVectorFunctions(); err != nil {
		return nil, err
	}
	db, err := engine.Open(engine.DSN(path, engine.Options{BusyTimeout: c.cfg.BusyTimeout}))
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", path, err)
	}
	inMemory := path == engine.MemoryPath
	switch {
	case inMemory:
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	case c.cfg.MaxOpenConns > 0:
		db.SetMaxOpenConns(c.cfg.MaxOpenConns)
	}
	if err := c.prepare(ctx, db, inMemory); err != nil {
		_ = db.Close()
		c.logger.Warn("database open failed", "path", path, "error", err)
		return nil, err
	}
	c.logger.Debug("database ready", "path", path, "journal_mode", journalMode)
	return db, nil
}

func (c *Connection) prepare(ctx context.Context, db *sql.DB, inMemory bool) error {
	var mode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode="+journalMode).Scan(&mode); err != nil {
		return fmt.Errorf("database: open %s: %w", c.cfg.Path, err)
	}
	if !inMemory && !strings.EqualFold(mode, journalMode) {
		return fmt.Errorf("database: journal_mode = %q, want %s", mode, journalMode)
	}
	if err := c.provision(ctx, db); err != nil {
		return fmt.Errorf("database: provision %s: %w", c.cfg.Path, err)
	}
	c.logger.Debug("database provisioned", "path", c.cfg.Path)
	return nil
}
