package cart

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store, used in tests and when Redis is not
// available.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[string]Cart{}}
}

func (s *MemoryStore) Get(_ context.Context, owner string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[owner], nil
}

func (s *MemoryStore) Save(_ context.Context, owner string, c Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[owner] = c
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, owner)
	return nil
}
