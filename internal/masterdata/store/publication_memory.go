package store

import (
	"context"
	"slices"
	"sync"

	"clms/internal/masterdata/models"
	id "clms/pkg/domain"
)

// InMemoryPublicationStore is append-only.
type InMemoryPublicationStore struct {
	mu      sync.RWMutex
	records []*models.PublicationRecord
}

func NewInMemoryPublicationStore() *InMemoryPublicationStore {
	return &InMemoryPublicationStore{}
}

func (s *InMemoryPublicationStore) Append(_ context.Context, rec *models.PublicationRecord) error {
	c := *rec
	c.EntryIDs = slices.Clone(rec.EntryIDs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, &c)
	return nil
}

// ListByGraph returns the graph's records, newest first.
func (s *InMemoryPublicationStore) ListByGraph(_ context.Context, graphID id.GraphID) ([]*models.PublicationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.PublicationRecord, 0)
	for i := len(s.records) - 1; i >= 0; i-- {
		if r := s.records[i]; r.GraphID == graphID {
			c := *r
			c.EntryIDs = slices.Clone(r.EntryIDs)
			out = append(out, &c)
		}
	}
	return out, nil
}

// SnapshotGraph returns a function that drops records of graphID appended
// after the snapshot. Records of other graphs are left alone.
func (s *InMemoryPublicationStore) SnapshotGraph(graphID id.GraphID) (restore func()) {
	s.mu.RLock()
	saved := make(map[id.PublicationID]struct{})
	for _, r := range s.records {
		if r.GraphID == graphID {
			saved[r.ID] = struct{}{}
		}
	}
	s.mu.RUnlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.records = slices.DeleteFunc(s.records, func(r *models.PublicationRecord) bool {
			if r.GraphID != graphID {
				return false
			}
			_, existed := saved[r.ID]
			return !existed
		})
	}
}
