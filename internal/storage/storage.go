// Package storage provides durable key/value blob stores for the catalog.
package storage

import (
	"context"
	"fmt"
)

// Storage persists opaque blobs under string keys.
//
// Load returns nil, nil when the key has never been written.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open constructs the Storage selected by driver. path is a directory for
// the file driver and a database file for the sqlite driver.
func Open(ctx context.Context, driver, path string) (Storage, error) {
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(path)
	case DriverSQLite:
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
