package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softsd/pkg"
)

func tempImage(t *testing.T, size int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "card.img")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestFileStoreReadWrite(t *testing.T) {
	s, err := OpenFile(tempImage(t, 4096))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, int64(4096), s.Size())

	want := []byte("single block payload")
	_, err = s.WriteAt(want, 512)
	require.NoError(t, err)

	got := make([]byte, len(want))
	_, err = s.ReadAt(got, 512)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.Sync())
}

func TestFileStoreOpenIdempotent(t *testing.T) {
	s, err := OpenFile(tempImage(t, 1024))
	require.NoError(t, err)
	defer s.Close()

	// Opening an already-open store is a no-op.
	assert.NoError(t, s.Open())
	assert.NoError(t, s.Open())
	assert.Equal(t, int64(1024), s.Size())
}

func TestFileStoreClose(t *testing.T) {
	s, err := OpenFile(tempImage(t, 1024))
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), pkg.ErrClosed)

	_, err = s.ReadAt(make([]byte, 16), 0)
	assert.ErrorIs(t, err, pkg.ErrClosed)
	_, err = s.WriteAt(make([]byte, 16), 0)
	assert.ErrorIs(t, err, pkg.ErrClosed)
	assert.ErrorIs(t, s.Sync(), pkg.ErrClosed)
}

func TestFileStoreOutOfRange(t *testing.T) {
	s, err := OpenFile(tempImage(t, 1024))
	require.NoError(t, err)
	defer s.Close()

	buf := make([]byte, 512)
	_, err = s.ReadAt(buf, 1024)
	assert.ErrorIs(t, err, pkg.ErrOutOfRange)
	_, err = s.ReadAt(buf, 513)
	assert.ErrorIs(t, err, pkg.ErrOutOfRange)
	_, err = s.WriteAt(buf, -1)
	assert.ErrorIs(t, err, pkg.ErrOutOfRange)
}

func TestFileStoreOpenMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.img"))
	assert.Error(t, err)
}

func TestMemStoreRoundTrip(t *testing.T) {
	m := NewMem(2048)
	assert.Equal(t, int64(2048), m.Size())

	want := []byte{0xde, 0xad, 0xbe, 0xef}
	_, err := m.WriteAt(want, 100)
	require.NoError(t, err)

	got := make([]byte, len(want))
	_, err = m.ReadAt(got, 100)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.NoError(t, m.Sync())
	assert.NoError(t, m.Close())
}

func TestMemStoreOutOfRange(t *testing.T) {
	m := NewMem(512)

	_, err := m.ReadAt(make([]byte, 512), 1)
	assert.ErrorIs(t, err, pkg.ErrOutOfRange)
	_, err = m.WriteAt(make([]byte, 1), 512)
	assert.ErrorIs(t, err, pkg.ErrOutOfRange)
}
