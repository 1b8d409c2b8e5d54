// Package storage persists filing payload bytes under opaque storage keys.
//
// A storage key is a relative, slash-separated path produced by a locator;
// storage performs no key derivation of its own. The local filesystem
// implementation is provided here; other backends plug in through the
// Storage interface.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned (wrapped) when a storage key has no object.
var ErrNotFound = errors.New("object not found")

// Storage is byte-oriented persistence keyed by opaque storage keys.
type Storage interface {
	// Save writes content under the key, creating any intermediate
	// structure, and returns the key the object ended up under. The
	// returned key is what Load and Delete accept later. An empty key
	// selects the backward-compatible checksum-as-filename fallback kept
	// for pre-locator data.
	Save(ctx context.Context, key string, content []byte) (string, error)

	// Load returns the bytes under the key, or an error wrapping
	// ErrNotFound when absent.
	Load(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether the key has an object.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object under the key. Deleting an absent key
	// returns an error wrapping ErrNotFound.
	Delete(ctx context.Context, key string) error

	// List returns the keys under the given key prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
