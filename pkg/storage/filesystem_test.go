package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorePutOpenRemove(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put("attendance/c1/report.csv", []byte("a,b\n")))
	rc, size, err := store.Open("attendance/c1/report.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "a,b\n", string(data))
	assert.Equal(t, int64(4), size)

	require.NoError(t, store.Remove("attendance/c1/report.csv"))
	require.NoError(t, store.Remove("attendance/c1/report.csv"))
	_, _, err = store.Open("attendance/c1/report.csv")
	assert.Error(t, err)
}

func TestDiskStoreRejectsEscapes(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x.csv", "a/../../x.csv", "/etc/passwd", "."} {
		assert.ErrorIs(t, store.Put(name, []byte("x")), ErrInvalidName, name)
	}
}

func TestDiskStoreSweep(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStore(root)
	require.NoError(t, err)

	require.NoError(t, store.Put("old.csv", []byte("old")))
	require.NoError(t, store.Put("new.csv", []byte("new")))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "old.csv"), past, past))

	removed, err := store.Sweep(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, removed)

	_, err = os.Stat(filepath.Join(root, "new.csv"))
	assert.NoError(t, err)
}
