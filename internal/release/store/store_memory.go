package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"clms/internal/release/models"
	id "clms/pkg/domain"
	"clms/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	releases map[id.ReleaseID]*models.Release
	// seq records insertion order, the last tie-break when dates are equal.
	seq  map[id.ReleaseID]uint64
	next uint64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		releases: make(map[id.ReleaseID]*models.Release),
		seq:      make(map[id.ReleaseID]uint64),
	}
}

// Create rejects a version that already exists.
func (s *InMemoryStore) Create(_ context.Context, r *models.Release) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.releases {
		if existing.Version == r.Version {
			return fmt.Errorf("release %s: %w", r.Version, sentinel.ErrConflict)
		}
	}
	c := *r
	s.releases[r.ID] = &c
	s.next++
	s.seq[r.ID] = s.next
	return nil
}

// List returns releases newest first.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Release, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(), nil
}

// Latest returns the newest release.
func (s *InMemoryStore) Latest(_ context.Context) (*models.Release, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.sorted()
	if len(all) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return all[0], nil
}

// LatestPolicyUpdated returns the newest release flagged as a policy change.
func (s *InMemoryStore) LatestPolicyUpdated(_ context.Context) (*models.Release, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.sorted() {
		if r.PolicyUpdated {
			return r, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Execute(_ context.Context, releaseID id.ReleaseID, validate func(*models.Release) error, mutate func(*models.Release)) (*models.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.releases[releaseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(r); err != nil {
		return nil, err
	}
	mutate(r)
	c := *r
	return &c, nil
}

// sorted returns copies ordered by release date, newest first, then by
// creation time and insertion order. Callers hold the lock.
func (s *InMemoryStore) sorted() []*models.Release {
	out := make([]*models.Release, 0, len(s.releases))
	for _, r := range s.releases {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReleaseDate.Equal(out[j].ReleaseDate) {
			return out[i].ReleaseDate.After(out[j].ReleaseDate)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out
}
