package offers

import (
	"context"
	"errors"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	menus map[string]Menu
}

// NewMemoryRepository builds an in-memory menu store.
func NewMemoryRepository() Repository {
	return &memoryRepository{menus: make(map[string]Menu)}
}

func (r *memoryRepository) Create(_ context.Context, m Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.menus[m.ID]; exists {
		return errors.New("offer menu exists")
	}
	m.Factors = append([]string(nil), m.Factors...)
	m.Bundles = append([]Bundle(nil), m.Bundles...)
	r.menus[m.ID] = m
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.menus[id]
	if !ok {
		return Menu{}, ErrNotFound
	}
	m.Factors = append([]string(nil), m.Factors...)
	m.Bundles = append([]Bundle(nil), m.Bundles...)
	return m, nil
}
