package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"clms/internal/masterdata/models"
	id "clms/pkg/domain"
	"clms/pkg/platform/sentinel"
)

// InMemoryEntryStore keeps entries in a map guarded by one RWMutex.
// Reads hand out clones.
type InMemoryEntryStore struct {
	mu      sync.RWMutex
	entries map[id.EntryID]*models.Entry
}

func NewInMemoryEntryStore() *InMemoryEntryStore {
	return &InMemoryEntryStore{entries: make(map[id.EntryID]*models.Entry)}
}

func (s *InMemoryEntryStore) Create(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[e.ID]; exists {
		return fmt.Errorf("entry %s: %w", e.ID, sentinel.ErrConflict)
	}
	s.entries[e.ID] = e.Clone()
	return nil
}

// CreateMany inserts every entry or none.
func (s *InMemoryEntryStore) CreateMany(_ context.Context, entries []*models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[id.EntryID]struct{}, len(entries))
	for _, e := range entries {
		if _, exists := s.entries[e.ID]; exists {
			return fmt.Errorf("entry %s: %w", e.ID, sentinel.ErrConflict)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("entry %s: %w", e.ID, sentinel.ErrConflict)
		}
		seen[e.ID] = struct{}{}
	}
	for _, e := range entries {
		s.entries[e.ID] = e.Clone()
	}
	return nil
}

// FindByID returns an active entry.
func (s *InMemoryEntryStore) FindByID(_ context.Context, entryID id.EntryID) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entryID]
	if !ok || !e.Active {
		return nil, sentinel.ErrNotFound
	}
	return e.Clone(), nil
}

// List returns visible entries matching filter, newest first.
func (s *InMemoryEntryStore) List(_ context.Context, filter models.EntryFilter) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Entry, 0)
	for _, e := range s.entries {
		if filter.Matches(e) {
			out = append(out, e.Clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryEntryStore) CountDrafts(_ context.Context, graphID id.GraphID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	filter := models.EntryFilter{GraphID: graphID, Status: models.StatusDraft}
	n := 0
	for _, e := range s.entries {
		if filter.Matches(e) {
			n++
		}
	}
	return n, nil
}

// PublishDrafts moves every visible draft of the graph live and returns the
// transitioned ids, oldest first.
func (s *InMemoryEntryStore) PublishDrafts(_ context.Context, graphID id.GraphID, now time.Time) ([]id.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filter := models.EntryFilter{GraphID: graphID, Status: models.StatusDraft}
	var moved []*models.Entry
	for _, e := range s.entries {
		if filter.Matches(e) && e.CanPublish() == nil {
			e.ApplyPublish(now)
			moved = append(moved, e)
		}
	}
	sortNewestFirst(moved)
	ids := make([]id.EntryID, len(moved))
	for i, e := range moved {
		ids[len(moved)-1-i] = e.ID
	}
	return ids, nil
}

// Execute validates and mutates an active entry under the store lock.
func (s *InMemoryEntryStore) Execute(_ context.Context, entryID id.EntryID, validate func(*models.Entry) error, mutate func(*models.Entry)) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok || !e.Active {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(e); err != nil {
		return nil, err
	}
	mutate(e)
	return e.Clone(), nil
}

// SnapshotGraph captures every entry of one graph and returns a function
// that puts them back, dropping entries created since.
func (s *InMemoryEntryStore) SnapshotGraph(graphID id.GraphID) (restore func()) {
	s.mu.RLock()
	saved := make(map[id.EntryID]*models.Entry)
	for k, e := range s.entries {
		if e.GraphID == graphID {
			saved[k] = e.Clone()
		}
	}
	s.mu.RUnlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for k, e := range s.entries {
			if e.GraphID == graphID {
				delete(s.entries, k)
			}
		}
		for k, e := range saved {
			s.entries[k] = e
		}
	}
}

func sortNewestFirst(entries []*models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID.String() > entries[j].ID.String()
	})
}
