package database

import (
	"context"
	"database/sql"
	"log/slog"
)

// Provisioner prepares a freshly opened database before it is handed out.
type Provisioner func(ctx context.Context, db *sql.DB) error

// Option configures a Connection.
type Option func(*Connection)

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProvisioner replaces the schema provisioning step run after open.
func WithProvisioner(provision Provisioner) Option {
	return func(c *Connection) {
		if provision != nil {
			c.provision = provision
		}
	}
}
