package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"clms/internal/masterdata/models"
	id "clms/pkg/domain"
	"clms/pkg/platform/sentinel"
)

type InMemoryTypeStore struct {
	mu    sync.RWMutex
	types map[id.TypeID]*models.Type
}

func NewInMemoryTypeStore() *InMemoryTypeStore {
	return &InMemoryTypeStore{types: make(map[id.TypeID]*models.Type)}
}

// Create rejects a name already taken, ignoring case.
func (s *InMemoryTypeStore) Create(_ context.Context, t *models.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.types {
		if strings.EqualFold(existing.Name, t.Name) {
			return fmt.Errorf("type name %q: %w", t.Name, sentinel.ErrConflict)
		}
	}
	c := *t
	s.types[t.ID] = &c
	return nil
}

func (s *InMemoryTypeStore) FindByID(_ context.Context, typeID id.TypeID) (*models.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[typeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *t
	return &c, nil
}

// List returns types ordered by name.
func (s *InMemoryTypeStore) List(_ context.Context) ([]*models.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Type, 0, len(s.types))
	for _, t := range s.types {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
