package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"clms/internal/knowledgegraph/models"
	"clms/internal/knowledgegraph/store"
	dErrors "clms/pkg/domain-errors"
	audit "clms/pkg/platform/audit"
	"clms/pkg/platform/audit/publishers/compliance"
	auditmemory "clms/pkg/platform/audit/store/memory"
)

type GraphServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	audit   *auditmemory.InMemoryStore
	service *Service
}

func TestGraphServiceSuite(t *testing.T) {
	suite.Run(t, new(GraphServiceSuite))
}

func (s *GraphServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.audit = auditmemory.NewInMemoryStore()
	s.service = New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(compliance.New(s.audit)),
	)
}

func graph(id string, skillIDs ...string) *models.Graph {
	skills := make([]*models.Skill, 0, len(skillIDs))
	for _, sid := range skillIDs {
		skills = append(skills, &models.Skill{ID: sid, Name: sid, CognitiveLevel: models.CognitiveApplying})
	}
	return &models.Graph{
		ID:   id,
		Name: "Graph " + id,
		Grades: []*models.Grade{{ID: "gr", Subjects: []*models.Subject{{ID: "su", Strands: []*models.Strand{{ID: "st",
			Topics: []*models.Topic{{ID: "tp", LearningOutcomes: []*models.LearningOutcome{{ID: "lo",
				Subtopics: []*models.Subtopic{{ID: "sub", Skills: skills}}}}}}}}}}}},
	}
}

func (s *GraphServiceSuite) TestPutGraph() {
	ctx := context.Background()

	s.Run("stores, indexes and audits", func() {
		summary, err := s.service.PutGraph(ctx, graph("g1", "ALG-1", "ALG-2"))
		s.Require().NoError(err)
		s.Equal(2, summary.SkillCount)

		rows, err := s.service.FlattenGraph(ctx, "g1")
		s.Require().NoError(err)
		s.Len(rows, 2)

		events := s.audit.ListByAction(ctx, audit.EventGraphReplaced)
		s.Require().Len(events, 1)
		s.Equal("g1", events[0].GraphID)
	})

	s.Run("replacing rebuilds the projection", func() {
		_, err := s.service.PutGraph(ctx, graph("g1", "GEO-1"))
		s.Require().NoError(err)

		hits, err := s.service.SearchSkills(ctx, "g1", "alg", 0)
		s.Require().NoError(err)
		s.Empty(hits)
		hits, err = s.service.SearchSkills(ctx, "g1", "geo", 0)
		s.Require().NoError(err)
		s.Len(hits, 1)
	})

	s.Run("duplicate skill ids rejected before write", func() {
		_, err := s.service.PutGraph(ctx, graph("g2", "X", "X"))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = s.store.FindByID(ctx, "g2")
		s.Error(err)
	})

	s.Run("invalid graph id", func() {
		_, err := s.service.PutGraph(ctx, graph("has space", "X"))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *GraphServiceSuite) TestLookups() {
	ctx := context.Background()
	_, err := s.service.PutGraph(ctx, graph("g1", "A"))
	s.Require().NoError(err)

	s.NoError(s.service.Exists(ctx, "g1"))
	s.True(dErrors.HasCode(s.service.Exists(ctx, "missing"), dErrors.CodeNotFound))

	_, err = s.service.GetGraph(ctx, "missing")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.SearchSkills(ctx, "missing", "", 0)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	list, err := s.service.ListGraphs(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("g1", list[0].ID)
}

func (s *GraphServiceSuite) TestIndexLoadsGraphsWrittenElsewhere() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, graph("g9", "S-1")))

	hits, err := s.service.SearchSkills(ctx, "g9", "s-", 0)
	s.Require().NoError(err)
	s.Len(hits, 1)

	fresh := New(s.store)
	s.Require().NoError(fresh.Warm(ctx))
	s.NoError(fresh.Exists(ctx, "g9"))
}

type brokenStore struct{ *store.InMemoryStore }

func (brokenStore) Save(context.Context, *models.Graph) error { return errors.New("connection reset") }

func (s *GraphServiceSuite) TestBackendFailure() {
	svc := New(brokenStore{store.NewInMemory()})
	_, err := svc.PutGraph(context.Background(), graph("g1", "A"))
	s.True(dErrors.HasCode(err, dErrors.CodeBackend))
	s.Contains(err.Error(), "connection reset")
}
