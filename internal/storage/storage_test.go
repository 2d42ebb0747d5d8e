package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinylkeep/internal/storage"
)

func TestFileGetMissingKey(t *testing.T) {
	kv, err := storage.NewFile(t.TempDir())
	require.NoError(t, err)

	_, err = kv.Get(context.Background(), "vinyl_records")
	assert.ErrorIs(t, err, storage.ErrNoValue)
}

func TestFileRoundTrip(t *testing.T) {
	kv, err := storage.NewFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "vinyl_records", []byte(`[]`)))

	value, err := kv.Get(ctx, "vinyl_records")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)

	require.NoError(t, kv.Set(ctx, "vinyl_records", []byte(`[1]`)))

	value, err = kv.Get(ctx, "vinyl_records")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), value)
}

func TestFileCreatesDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	_, err := storage.NewFile(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMemoryRoundTrip(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()

	_, err := kv.Get(ctx, "vinyl_records")
	assert.ErrorIs(t, err, storage.ErrNoValue)

	require.NoError(t, kv.Set(ctx, "vinyl_records", []byte(`[]`)))

	value, err := kv.Get(ctx, "vinyl_records")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)
}

func TestMemoryCopiesValues(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()

	original := []byte(`[]`)
	require.NoError(t, kv.Set(ctx, "vinyl_records", original))
	original[0] = 'x'

	value, err := kv.Get(ctx, "vinyl_records")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)
}
