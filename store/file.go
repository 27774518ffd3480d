// Package store provides persistent store implementations for
// translation data.
package store

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/ZaguanLabs/treelate"
)

// FileStore persists a TranslationStore as a single pretty-printed JSON
// document so it stays human-editable. Every save rewrites the whole
// file; there is no file-level locking, so concurrent writers at the OS
// level can still race.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore at the given path. The file is not
// created until the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the stored document. A missing file means no data yet and
// returns an empty store with no error; an unreadable or unparseable
// file returns an empty store and the underlying error so callers can
// log it and carry on.
func (s *FileStore) Load() (treelate.TranslationStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return treelate.TranslationStore{}, nil
	}
	if err != nil {
		return treelate.TranslationStore{}, &treelate.StorageError{Op: "load", Path: s.path, Cause: err}
	}

	var out treelate.TranslationStore
	if err := json.Unmarshal(data, &out); err != nil {
		return treelate.TranslationStore{}, &treelate.StorageError{Op: "load", Path: s.path, Cause: err}
	}
	if out == nil {
		out = treelate.TranslationStore{}
	}
	return out, nil
}

// Save rewrites the whole document. Failures are fatal to the caller.
func (s *FileStore) Save(data treelate.TranslationStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return &treelate.StorageError{Op: "save", Path: s.path, Cause: err}
	}
	encoded = append(encoded, '\n')

	if err := os.WriteFile(s.path, encoded, 0o644); err != nil {
		return &treelate.StorageError{Op: "save", Path: s.path, Cause: err}
	}
	return nil
}

// Path returns the file path backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Verify FileStore implements Store
var _ treelate.Store = (*FileStore)(nil)
