// Package database owns the process-wide SQLite handle shared by the note
// and embedding stores. A Connection opens its file lazily on the first
// Acquire, switches it to write-ahead logging and provisions the schema
// exactly once; concurrent first callers share a single initialization.
package database
