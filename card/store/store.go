package store

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ardnew/softsd/pkg"
)

// Store is a random-access card image. Reads and writes must transfer the
// full requested range or fail; the emulator never tolerates short I/O.
type Store interface {
	io.ReaderAt
	io.WriterAt

	// Size returns the image size in bytes.
	Size() int64

	// Sync flushes any buffered writes to the underlying medium.
	Sync() error

	// Close releases the backing resources. Further I/O fails.
	Close() error
}

// FileStore is a Store backed by a regular file.
type FileStore struct {
	path string
	file *os.File
	size int64
	mu   sync.RWMutex
}

// OpenFile opens the card image at path for reading and writing.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens the backing file. Opening an already-open store is a no-op.
func (s *FileStore) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		return nil
	}

	file, err := os.OpenFile(s.path, os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open card image: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat card image: %w", err)
	}

	s.file = file
	s.size = stat.Size()

	pkg.LogInfo(pkg.ComponentStore, "card image opened",
		"path", s.path,
		"size", s.size)

	return nil
}

// Size returns the image size in bytes.
func (s *FileStore) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// ReadAt reads len(p) bytes at offset off.
func (s *FileStore) ReadAt(p []byte, off int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.file == nil {
		return 0, pkg.ErrClosed
	}
	if off < 0 || off+int64(len(p)) > s.size {
		return 0, pkg.ErrOutOfRange
	}

	return s.file.ReadAt(p, off)
}

// WriteAt writes len(p) bytes at offset off.
func (s *FileStore) WriteAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return 0, pkg.ErrClosed
	}
	if off < 0 || off+int64(len(p)) > s.size {
		return 0, pkg.ErrOutOfRange
	}

	return s.file.WriteAt(p, off)
}

// Sync flushes writes to disk.
func (s *FileStore) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return pkg.ErrClosed
	}
	return s.file.Sync()
}

// Close closes the backing file. Closing an already-closed store fails.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return pkg.ErrClosed
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// MemStore is an in-memory Store, primarily for tests.
type MemStore struct {
	data []byte
	mu   sync.RWMutex
}

// NewMem creates an in-memory store of the given size.
func NewMem(size int64) *MemStore {
	return &MemStore{data: make([]byte, size)}
}

// Size returns the image size in bytes.
func (m *MemStore) Size() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.data))
}

// ReadAt reads len(p) bytes at offset off.
func (m *MemStore) ReadAt(p []byte, off int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if off < 0 || off+int64(len(p)) > int64(len(m.data)) {
		return 0, pkg.ErrOutOfRange
	}
	return copy(p, m.data[off:]), nil
}

// WriteAt writes len(p) bytes at offset off.
func (m *MemStore) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if off < 0 || off+int64(len(p)) > int64(len(m.data)) {
		return 0, pkg.ErrOutOfRange
	}
	return copy(m.data[off:], p), nil
}

// Sync is a no-op for memory storage.
func (m *MemStore) Sync() error {
	return nil
}

// Close is a no-op for memory storage.
func (m *MemStore) Close() error {
	return nil
}

// Compile-time interface checks
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemStore)(nil)
)
