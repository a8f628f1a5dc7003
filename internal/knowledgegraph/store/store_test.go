package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clms/internal/knowledgegraph/models"
	"clms/pkg/platform/sentinel"
)

func graph(graphID, name string) *models.Graph {
	return &models.Graph{ID: graphID, Name: name}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	_, err := s.FindByID(ctx, "g1")
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	g := graph("g1", "Maths")
	require.NoError(t, s.Save(ctx, g))
	require.NoError(t, s.Save(ctx, graph("g0", "Science")))

	t.Run("returns copies", func(t *testing.T) {
		g.Name = "mutated after save"
		found, err := s.FindByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "Maths", found.Name)

		found.Name = "mutated after read"
		again, err := s.FindByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "Maths", again.Name)
	})

	t.Run("save replaces", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, graph("g1", "Mathematics")))
		found, err := s.FindByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", found.Name)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		graphs, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, graphs, 2)
		assert.Equal(t, "g0", graphs[0].ID)
		assert.Equal(t, "g1", graphs[1].ID)
	})
}
