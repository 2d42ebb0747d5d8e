package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// File keeps each slot in its own file inside a data directory.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates the data directory if needed and returns a file-backed KV.
func NewFile(dir string) (*File, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}

	return &File{dir: dir}, nil
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNoValue
	} else if err != nil {
		return nil, err
	}

	return raw, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return os.WriteFile(f.path(key), value, 0666)
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}
