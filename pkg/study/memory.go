package study

import (
	"context"
	"slices"
	"sync"

	"github.com/visionspec/visionspec/pkg/errors"
)

// MemoryStore keeps studies in a map guarded by a mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	studies map[string]*Study
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{studies: make(map[string]*Study)}
}

// Create stores a copy of s.
func (m *MemoryStore) Create(ctx context.Context, s *Study) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.studies[s.ID]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "study %s already exists", s.ID)
	}
	m.studies[s.ID] = clone(s)
	return nil
}

// Get returns a copy of the stored study.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Study, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.studies[id]
	if !ok {
		return nil, notFound(id)
	}
	return clone(s), nil
}

// List returns copies sorted by CreatedAt descending, then ID.
func (m *MemoryStore) List(ctx context.Context, limit int) ([]*Study, error) {
	m.mu.RLock()
	out := make([]*Study, 0, len(m.studies))
	for _, s := range m.studies {
		out = append(out, clone(s))
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Study) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareStrings(a.ID, b.ID)
	})
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Close does nothing.
func (m *MemoryStore) Close() error { return nil }

func clone(s *Study) *Study {
	c := *s
	c.Recommendations = slices.Clone(s.Recommendations)
	return &c
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

var _ Store = (*MemoryStore)(nil)
