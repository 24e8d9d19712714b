package consent

import (
	"context"
	"errors"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	consents map[string]Consent
}

// NewMemoryRepository builds an in-memory consent store.
func NewMemoryRepository() Repository {
	return &memoryRepository{consents: make(map[string]Consent)}
}

func (r *memoryRepository) Create(_ context.Context, c Consent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.consents[c.ID]; exists {
		return errors.New("consent exists")
	}
	r.consents[c.ID] = c
	return nil
}

func (r *memoryRepository) FindMatching(_ context.Context, id, applicantID, listingID string) (Consent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.consents[id]
	if !ok || c.ApplicantID != applicantID || c.ListingID != listingID {
		return Consent{}, ErrNotFound
	}
	return c, nil
}
