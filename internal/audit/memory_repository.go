package audit

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	seq    int64
	events []Event
}

// NewMemoryRepository builds an in-memory audit store.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Append(_ context.Context, e Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e.Seq = r.seq
	meta := make(map[string]any, len(e.Metadata))
	for k, v := range e.Metadata {
		meta[k] = v
	}
	e.Metadata = meta
	r.events = append(r.events, e)
	return e, nil
}

func (r *memoryRepository) List(_ context.Context, filter Filter) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pairs := filter.pairs()
	var out []Event
	for _, e := range r.events {
		if matches(e, pairs) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func matches(e Event, pairs map[string]string) bool {
	for k, want := range pairs {
		v, ok := e.Metadata[k]
		if !ok || fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}
