package catalog

import (
	"context"
	"sync"
)

// MemStore is a Store with no durable mirror. It backs tests and local
// development where losing the catalog on exit is fine.
type MemStore struct {
	mu       sync.RWMutex
	products []Product
}

func NewMemStore(seed ...Product) *MemStore {
	s := &MemStore{}
	s.products = append(s.products, seed...)
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemStore) Add(ctx context.Context, p Product) error {
	if err := validate(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append(s.products, p)
	return nil
}
