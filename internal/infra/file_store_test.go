package infra

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storedName = regexp.MustCompile(`^itinerary-\d{13}-[0-9a-z]{9}\.csv$`)

func TestLocalFileStorePublishAndRemove(t *testing.T) {
	src := filepath.Join(t.TempDir(), "upload.csv")
	require.NoError(t, os.WriteFile(src, []byte("day,activity\n1,Beach\n"), 0o600))

	store, err := NewLocalFileStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	stored, err := store.Publish(src, ".CSV")
	require.NoError(t, err)

	assert.Regexp(t, storedName, stored.Name)
	assert.Equal(t, "/uploads/"+stored.Name, stored.URL)
	assert.Equal(t, int64(21), stored.Size)

	data, err := os.ReadFile(filepath.Join(store.Dir(), stored.Name))
	require.NoError(t, err)
	assert.Equal(t, "day,activity\n1,Beach\n", string(data))

	require.NoError(t, store.Remove(stored.Name))
	_, err = os.Stat(filepath.Join(store.Dir(), stored.Name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Remove(stored.Name), "removing twice is fine")
}

func TestLocalFileStoreNamesAreUnique(t *testing.T) {
	src := filepath.Join(t.TempDir(), "upload.csv")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))
	store, err := NewLocalFileStore(t.TempDir())
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		stored, err := store.Publish(src, ".csv")
		require.NoError(t, err)
		assert.False(t, seen[stored.Name])
		seen[stored.Name] = true
	}
}

func TestLocalFileStoreRemoveRejectsTraversal(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, store.Remove("../etc/passwd"))
}
