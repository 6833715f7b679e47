// Package store persists collections and settings as flat JSON documents
// in a single data directory. Each collection is one JSON array per key,
// each setting one JSON document per key. Saves are whole-document
// overwrites. Every access on a key goes through the key's lock: readers
// share it, writers hold it exclusively, and UpdateCollection holds it
// across the full load-modify-write so two in-flight appends cannot lose
// each other's items. There is no multi-process locking, no schema
// versioning and no durability guarantee beyond the flat file.
package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Store reads and writes flat JSON documents under a data directory
type Store struct {
	fs  FileSystem
	dir string

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// New creates a store rooted at dir
func New(fs FileSystem, dir string) *Store {
	return &Store{
		fs:    fs,
		dir:   dir,
		locks: make(map[string]*sync.RWMutex),
	}
}

// Dir returns the data directory
func (s *Store) Dir() string {
	return s.dir
}

// keyLock returns the lock for a storage key
func (s *Store) keyLock(key string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.RWMutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *Store) path(key string) string {
	return s.fs.Join(s.dir, key+".json")
}

// readDocument loads the raw document for key; a missing file returns
// (nil, false, nil). Callers must hold the key lock.
func (s *Store) readDocument(ctx context.Context, key string) ([]byte, bool, error) {
	path := s.path(key)

	exists, err := s.fs.Exists(ctx, path)
	if err != nil {
		return nil, false, Errors.NewWithCause(ErrReadFailed, err).WithDetail("key", key)
	}
	if !exists {
		return nil, false, nil
	}

	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, false, Errors.NewWithCause(ErrReadFailed, err).WithDetail("key", key)
	}
	return data, true, nil
}

// writeDocument overwrites the document for key. Callers must hold the
// key lock exclusively.
func (s *Store) writeDocument(ctx context.Context, key string, data []byte) error {
	if err := s.fs.WriteFile(ctx, s.path(key), data); err != nil {
		return Errors.NewWithCause(ErrWriteFailed, err).WithDetail("key", key)
	}
	return nil
}

// ExportFile writes raw bytes to a named file in the data directory and
// returns the full path. Used for plain-text exports that live next to
// the JSON documents.
func (s *Store) ExportFile(ctx context.Context, name string, data []byte) (string, error) {
	path := s.fs.Join(s.dir, name)
	if err := s.fs.WriteFile(ctx, path, data); err != nil {
		return "", Errors.NewWithCause(ErrWriteFailed, err).WithDetail("name", name)
	}
	return path, nil
}

// Delete removes the document for key. Deleting a missing key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	path := s.path(key)
	exists, err := s.fs.Exists(ctx, path)
	if err != nil {
		return Errors.NewWithCause(ErrWriteFailed, err).WithDetail("key", key)
	}
	if !exists {
		return nil
	}

	if err := s.fs.DeleteFile(ctx, path); err != nil {
		return Errors.NewWithCause(ErrWriteFailed, err).WithDetail("key", key)
	}
	return nil
}

// loadCollection reads and decodes the array under key. Callers must
// hold the key lock.
func loadCollection[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	data, exists, err := s.readDocument(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, Errors.NewWithCause(ErrDecodeFailed, err).WithDetail("key", key)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// saveCollection encodes and writes the array under key. Callers must
// hold the key lock exclusively.
func saveCollection[T any](ctx context.Context, s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return Errors.NewWithCause(ErrEncodeFailed, err).WithDetail("key", key)
	}
	return s.writeDocument(ctx, key, data)
}

// LoadCollection loads the JSON array stored under key. A missing file
// returns an empty slice, never an error. Malformed JSON fails with a
// decode error.
func LoadCollection[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	lock := s.keyLock(key)
	lock.RLock()
	defer lock.RUnlock()

	return loadCollection[T](ctx, s, key)
}

// SaveCollection overwrites the JSON array stored under key with items
func SaveCollection[T any](ctx context.Context, s *Store, key string, items []T) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	return saveCollection(ctx, s, key, items)
}

// UpdateCollection applies a mutation to the array stored under key and
// writes the result back, holding the key lock for the whole
// load-modify-write. An error from apply aborts the update and leaves
// the document untouched.
func UpdateCollection[T any](ctx context.Context, s *Store, key string, apply func([]T) ([]T, error)) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	items, err := loadCollection[T](ctx, s, key)
	if err != nil {
		return err
	}

	updated, err := apply(items)
	if err != nil {
		return err
	}
	return saveCollection(ctx, s, key, updated)
}

// LoadSetting loads the JSON document stored under key into out and
// reports whether the document existed. A missing file leaves out
// untouched and returns false without an error.
func LoadSetting[T any](ctx context.Context, s *Store, key string, out *T) (bool, error) {
	lock := s.keyLock(key)
	lock.RLock()
	defer lock.RUnlock()

	data, exists, err := s.readDocument(ctx, key)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, Errors.NewWithCause(ErrDecodeFailed, err).WithDetail("key", key)
	}
	return true, nil
}

// SaveSetting overwrites the JSON document stored under key with value
func SaveSetting[T any](ctx context.Context, s *Store, key string, value T) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return Errors.NewWithCause(ErrEncodeFailed, err).WithDetail("key", key)
	}
	return s.writeDocument(ctx, key, data)
}
