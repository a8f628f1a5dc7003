package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"clms/internal/knowledgegraph/models"
	"clms/pkg/platform/sentinel"
)

// InMemoryStore keeps graphs as encoded documents so callers never share
// pointers with the store.
type InMemoryStore struct {
	mu     sync.RWMutex
	graphs map[string][]byte
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{graphs: make(map[string][]byte)}
}

func (s *InMemoryStore) Save(_ context.Context, g *models.Graph) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[g.ID] = doc
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, graphID string) (*models.Graph, error) {
	s.mu.RLock()
	doc, ok := s.graphs[graphID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return decode(doc)
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Graph, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.graphs))
	for id := range s.graphs {
		ids = append(ids, id)
	}
	docs := make([][]byte, 0, len(ids))
	sort.Strings(ids)
	for _, id := range ids {
		docs = append(docs, s.graphs[id])
	}
	s.mu.RUnlock()

	graphs := make([]*models.Graph, 0, len(docs))
	for _, doc := range docs {
		g, err := decode(doc)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

func decode(doc []byte) (*models.Graph, error) {
	var g models.Graph
	if err := json.Unmarshal(doc, &g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return &g, nil
}
