package listing

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Listing
}

// NewMemoryRepository constructs an in-memory repository for tests and local runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Listing)}
}

func (r *memoryRepository) Create(_ context.Context, l Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[l.ID]; exists {
		return errors.New("listing exists")
	}
	r.storage[l.ID] = l
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.storage[id]
	if !ok {
		return Listing{}, ErrNotFound
	}
	return l, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Listing, 0, len(r.storage))
	for _, l := range r.storage {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
