// Package snapshot persists serialised item state.
package snapshot

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Store keeps serialised snapshots.
type Store interface {
	// Save durably stores a snapshot, retiring old generations.
	Save(ctx context.Context, blob []byte) error
	// Load returns the most recent snapshot or ErrNoSnapshot.
	Load(ctx context.Context) ([]byte, error)
	Close() error
}

// Open creates the store for a backend.
func Open(ctx context.Context, backend, path string, opts ...Option) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path, opts...), nil
	case BackendSQLite:
		return OpenSQLite(ctx, path, opts...)
	case BackendNone, "":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// Nop discards snapshots.
type Nop struct{}

// Save implements Store.Save.
func (Nop) Save(context.Context, []byte) error { return nil }

// Load implements Store.Load.
func (Nop) Load(context.Context) ([]byte, error) { return nil, ErrNoSnapshot }

// Close implements Store.Close.
func (Nop) Close() error { return nil }
