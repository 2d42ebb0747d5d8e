// Package storage provides the persistent key-value slots the collection is
// kept in. A slot holds one opaque value per key; callers decide what the
// value means. Implementations: files in a data directory, a SQLite table,
// and an in-memory map for tests.
package storage

import (
	"context"
	"errors"
)

// ErrNoValue is returned by Get when a key has never been written.
var ErrNoValue = errors.New("storage: no value")

// KV is a persistent key-value slot store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
