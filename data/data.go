// Package data stores flat key/value blobs, the server-side stand-in for
// browser local storage. Values are opaque bytes; JSON helpers sit on top.
package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("data: key not found")

// Store is a flat key/value store. Every Set replaces the whole value.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte) error
	Name() string
	Close() error
}

// DefaultDir returns the default data directory, $HOME/.tripspotter.
func DefaultDir() string {
	return os.ExpandEnv("$HOME/.tripspotter")
}

// Open returns the store backend named by kind. File and sqlite stores live
// under dir; a postgres store connects to dsn.
func Open(kind, dir, dsn string) (Store, error) {
	switch kind {
	case "", "file":
		return NewFileStore(dir)
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "tripspotter.db"))
	case "postgres":
		if dsn == "" {
			return nil, errors.New("data: postgres storage needs a database url")
		}
		return OpenPostgres(dsn)
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("data: unknown storage %q", kind)
}

// SaveJSON marshals val and writes it under key.
func SaveJSON(s Store, key string, val interface{}) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return s.Set(key, b)
}

// LoadJSON reads key and unmarshals it into val. It returns ErrNotFound when
// the key is absent.
func LoadJSON(s Store, key string, val interface{}) error {
	b, err := s.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, val)
}

// FileStore keeps one file per key under a directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("data: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("data: invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get reads the file for key.
func (f *FileStore) Get(key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return b, err
}

// Set writes val to a temp file and renames it over the file for key, so a
// reader never sees a partial value.
func (f *FileStore) Set(key string, val []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, val, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (f *FileStore) Name() string { return "file:" + f.dir }

func (f *FileStore) Close() error { return nil }

// MemoryStore is a process-local store, used when nothing should touch disk.
type MemoryStore struct {
	mu   sync.RWMutex
	vals map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vals: map[string][]byte{}}
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vals[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(key string, val []byte) error {
	m.mu.Lock()
	m.vals[key] = append([]byte(nil), val...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Close() error { return nil }
