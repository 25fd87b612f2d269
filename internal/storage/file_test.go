package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_WriteThenOpen(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "user_ratings.csv", []byte("Attraction,alice\n")))
	require.NoError(t, store.Write(ctx, "user_ratings.csv", []byte("Attraction,bob\n")))

	rc, err := store.Open(ctx, "user_ratings.csv")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Attraction,bob\n", string(data), "write overwrites the whole file")
	assert.Equal(t, "file", store.Kind())
}

func TestFileStore_OpenMissing(t *testing.T) {
	_, err := NewFileStore(t.TempDir()).Open(context.Background(), "final_attractions.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_NamesStayInsideDir(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "data"))

	require.NoError(t, store.Write(context.Background(), "../escape.csv", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "escape.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "data", "escape.csv"))
	assert.NoError(t, err)
}
