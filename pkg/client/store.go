package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fixed local store keys. Per-profile mirrors use WatchlistKey and
// WatchHistoryKey.
const (
	KeyAuthToken     = "auth-token"
	KeyUserInfo      = "user-info"
	KeyProfiles      = "profiles"
	KeyActiveProfile = "active-profile"
	KeyPendingWrites = "pending-writes"

	SchemaVersion = 1
)

func WatchlistKey(profileID string) string {
	return "watchlist:" + profileID
}

func WatchHistoryKey(profileID string) string {
	return "watch-history:" + profileID
}

// LocalStore is a small key/value store of JSON documents.
type LocalStore interface {
	// Get decodes the value under key into v and reports whether it existed.
	Get(key string, v interface{}) (bool, error)
	Put(key string, v interface{}) error
	Delete(key string) error
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]json.RawMessage)}
}

func (m *MemoryStore) Get(key string, v interface{}) (bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (m *MemoryStore) Put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

type fileDocument struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// FileStore keeps every key in one JSON file and rewrites the whole file on
// each change. Writes from other processes sharing the file are not merged:
// the last writer wins.
type FileStore struct {
	path string
	mu   sync.Mutex
	doc  fileDocument
}

// OpenFileStore loads path, or starts empty when it does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path: path,
		doc:  fileDocument{Version: SchemaVersion, Entries: make(map[string]json.RawMessage)},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local store: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse local store: %w", err)
	}
	if doc.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchemaVersion, doc.Version)
	}
	if doc.Entries != nil {
		fs.doc.Entries = doc.Entries
	}
	return fs, nil
}

func (f *FileStore) Get(key string, v interface{}) (bool, error) {
	f.mu.Lock()
	raw, ok := f.doc.Entries[key]
	f.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (f *FileStore) Put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.doc.Entries[key]
	f.doc.Entries[key] = raw
	if err := f.flush(); err != nil {
		if had {
			f.doc.Entries[key] = prev
		} else {
			delete(f.doc.Entries, key)
		}
		return err
	}
	return nil
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.doc.Entries[key]
	if !had {
		return nil
	}
	delete(f.doc.Entries, key)
	if err := f.flush(); err != nil {
		f.doc.Entries[key] = prev
		return err
	}
	return nil
}

// flush writes to a temp file in the same directory and renames it over the
// store, so readers never see a partial document. Caller holds f.mu.
func (f *FileStore) flush() error {
	data, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write local store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("write local store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	return nil
}
