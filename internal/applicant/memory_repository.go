package applicant

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu         sync.RWMutex
	applicants map[string]Applicant
}

// NewMemoryRepository builds an in-memory applicant store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{applicants: make(map[string]Applicant)}
}

func (r *memoryRepository) Create(_ context.Context, a Applicant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.applicants[a.ID]; exists {
		return errors.New("applicant exists")
	}
	r.applicants[a.ID] = a
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Applicant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.applicants[id]
	if !ok {
		return Applicant{}, ErrNotFound
	}
	return a, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Applicant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Applicant, 0, len(r.applicants))
	for _, a := range r.applicants {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
