package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/deskpulse/deskpulse/internal/ports"
)

// MemoryDocumentStore keeps documents in process memory. Bodies are copied on
// the way in and out.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{collections: make(map[string]map[string][]byte)}
}

func (s *MemoryDocumentStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.collections[collection][id]
	if !ok {
		return nil, ports.ErrDocumentNotFound
	}
	return clone(body), nil
}

func (s *MemoryDocumentStore) Put(ctx context.Context, collection, id string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string][]byte)
		s.collections[collection] = docs
	}
	docs[id] = clone(body)
	return nil
}

func (s *MemoryDocumentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return ports.ErrDocumentNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

// List returns the documents ordered by id.
func (s *MemoryDocumentStore) List(ctx context.Context, collection string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	bodies := make([][]byte, 0, len(ids))
	for _, id := range ids {
		bodies = append(bodies, clone(docs[id]))
	}
	return bodies, nil
}

func (s *MemoryDocumentStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryDocumentStore) Close() error {
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
