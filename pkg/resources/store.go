package resources

import (
	"context"
	"sync"
)

// Store persists the latest snapshot so a restarted exporter can serve
// resources before its first refresh completes. It holds exactly one
// snapshot; this is not a history store.
type Store interface {
	// Load returns the persisted snapshot, or (nil, nil) when none exists.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}

// MemoryStore is an in-memory Store, used in tests and as a stand-in when
// persistence is disabled.
type MemoryStore struct {
	mu   sync.Mutex
	snap *Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
