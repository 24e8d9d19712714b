package creditpull

import (
	"context"
	"errors"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	pulls map[string]Record
}

// NewMemoryRepository builds an in-memory credit pull store.
func NewMemoryRepository() Repository {
	return &memoryRepository{pulls: make(map[string]Record)}
}

func (r *memoryRepository) Create(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.pulls[rec.ID]; exists {
		return errors.New("credit pull exists")
	}
	r.pulls[rec.ID] = rec
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.pulls[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}
