package internal

import (
	"fmt"
	"os"
	"sync"
)

const IndexFilename = "index.json"

// Store owns a single persisted index location. Writers are serialized
// through the mutex and every write lands via temp-file-plus-rename, so a
// crash mid-write never leaves a half-written index visible to readers.
type Store struct {
	mu   sync.Mutex
	path string // the index file inside the store directory
	dir  string
}

func NewStore(scope Scope) (*Store, error) {
	info, err := os.Stat(scope.StorePath)
	if os.IsNotExist(err) || (err == nil && !info.IsDir()) {
		return nil, fmt.Errorf("%w: %s (run 'recall init')", ErrNotInitialized, scope.StorePath)
	}
	if err != nil {
		return nil, fmt.Errorf("stat store: %w", err)
	}

	return &Store{
		path: scope.IndexPath(),
		dir:  scope.StorePath,
	}, nil
}

// Save atomically replaces the persisted collection.
func (s *Store) Save(col *Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := col.Encode()
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace index: %w", err)
	}

	return nil
}

// Load reads the persisted collection wholesale.
func (s *Store) Load() (*Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w at %s", ErrIndexNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	return DecodeCollection(data)
}

func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// StoreCache hands out one Store per index location so every operation on a
// location shares the same write lock. A fresh Store per call would defeat
// the single-writer guarantee.
type StoreCache struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewStoreCache() *StoreCache {
	return &StoreCache{stores: make(map[string]*Store)}
}

func (c *StoreCache) Get(scope Scope) (*Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if store, ok := c.stores[scope.StorePath]; ok {
		return store, nil
	}

	store, err := NewStore(scope)
	if err != nil {
		return nil, err
	}
	c.stores[scope.StorePath] = store
	return store, nil
}
