// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// Keys used by the application. The names match the browser storage keys of
// the first version of the app so exported data can be imported verbatim.
const (
	EventsKey   = "onbeventi_data_v1"
	SettingsKey = "onbeventi_api_key"
)

var (
	// ErrNotFound is returned by Store.Get when the key holds no value.
	ErrNotFound = errors.New("key not found")

	// ErrCorrupt is returned when a stored payload cannot be decoded.
	ErrCorrupt = errors.New("stored data is corrupted")
)

// Store defines the interface for key-value storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, memory)
// without changing the repository layer.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key has no value.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key in a single write.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
