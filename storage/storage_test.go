package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore(t *testing.T) {
	s := NewMemStore()

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("a", "1"))
	v, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, s.Delete("a"))
	_, err = s.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete("a"), "deleting a missing key is not an error")
}

func TestMemStoreFailWrites(t *testing.T) {
	s := NewMemStore()
	quota := errors.New("quota exceeded")
	s.FailWrites = quota

	assert.ErrorIs(t, s.Set("a", "1"), quota)
	assert.Equal(t, 0, s.Len())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("song", "data"))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	v, err := reopened.Get("song")
	require.NoError(t, err)
	assert.Equal(t, "data", v)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := OpenFileStore(path)
	assert.Error(t, err)
}
