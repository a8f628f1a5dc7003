package flatten

import (
	"slices"
	"sync"

	"clms/internal/knowledgegraph/models"
)

// Index holds the flattened projection of each graph. Entries are replaced
// wholesale whenever their graph changes.
type Index struct {
	mu     sync.RWMutex
	skills map[string][]models.FlattenedSkill
}

func NewIndex() *Index {
	return &Index{skills: make(map[string][]models.FlattenedSkill)}
}

// Rebuild recomputes the projection for g.
func (i *Index) Rebuild(g *models.Graph) {
	if g == nil {
		return
	}
	rows := Flatten(g)
	i.mu.Lock()
	defer i.mu.Unlock()
	i.skills[g.ID] = rows
}

// Remove drops a graph from the index.
func (i *Index) Remove(graphID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.skills, graphID)
}

// Skills returns a copy of the graph's projection.
func (i *Index) Skills(graphID string) ([]models.FlattenedSkill, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	rows, ok := i.skills[graphID]
	return slices.Clone(rows), ok
}

// Search runs Search over one graph's projection.
func (i *Index) Search(graphID, query string, limit int) []models.FlattenedSkill {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return Search(i.skills[graphID], query, limit)
}
