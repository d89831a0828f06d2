// Package store persists derivation records.
package store

import (
	"errors"
	"time"
)

// Store persists derivation records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a record. An empty ID is filled with a new UUID and a zero
	// CreatedAt with the current time, both on rec itself.
	// Saving an existing ID overwrites the record and keeps its list position.
	Save(rec *Record) error

	// Load retrieves a record.
	// Returns ErrNotFound if the record doesn't exist.
	Load(id string) (*Record, error)

	// List returns metadata for all records, oldest first.
	// Returns empty slice (not error) if the store is empty.
	List() ([]Info, error)

	// Delete removes a record.
	// Returns nil if the record doesn't exist.
	Delete(id string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the full record.
type Info struct {
	ID        string
	Variable  string
	Order     int
	CreatedAt time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("record store closed")

	// ErrInvalidRecord indicates a nil record or one without a variable.
	ErrInvalidRecord = errors.New("invalid record")
)
