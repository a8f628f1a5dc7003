package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clms/internal/release/models"
	id "clms/pkg/domain"
	"clms/pkg/platform/sentinel"
)

type ReleaseStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	base  time.Time
}

func (s *ReleaseStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestReleaseStoreSuite(t *testing.T) {
	suite.Run(t, new(ReleaseStoreSuite))
}

func (s *ReleaseStoreSuite) create(version id.PolicyVersion, at time.Time) *models.Release {
	r, err := models.NewRelease(id.ReleaseID(uuid.New()), version, models.ReleaseMinor, "", at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, r))
	return r
}

func (s *ReleaseStoreSuite) TestEmptyStore() {
	_, err := s.store.Latest(s.ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.LatestPolicyUpdated(s.ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ReleaseStoreSuite) TestDuplicateVersion() {
	s.create("v1.0.0", s.base)
	dup, err := models.NewRelease(id.ReleaseID(uuid.New()), "v1.0.0", models.ReleaseMajor, "", s.base)
	s.Require().NoError(err)
	s.ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrConflict)
}

func (s *ReleaseStoreSuite) TestLatestAndPolicyUpdated() {
	first := s.create("v1.0.0", s.base)
	second := s.create("v1.1.0", s.base.Add(24*time.Hour))

	latest, err := s.store.Latest(s.ctx)
	s.Require().NoError(err)
	s.Equal(second.ID, latest.ID)

	_, err = s.store.Execute(s.ctx, first.ID,
		func(*models.Release) error { return nil },
		func(r *models.Release) { r.ApplyPolicyUpdate() },
	)
	s.Require().NoError(err)

	policy, err := s.store.LatestPolicyUpdated(s.ctx)
	s.Require().NoError(err)
	s.Equal(id.PolicyVersion("v1.0.0"), policy.Version)

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(second.ID, all[0].ID)
}

func (s *ReleaseStoreSuite) TestExecuteUnknown() {
	_, err := s.store.Execute(s.ctx, id.ReleaseID(uuid.New()),
		func(*models.Release) error { return nil },
		func(*models.Release) {},
	)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ReleaseStoreSuite) TestSameDateKeepsInsertionOrder() {
	older := s.create("v9.0.0", s.base)
	newer := s.create("v10.0.0", s.base)

	latest, err := s.store.Latest(s.ctx)
	s.Require().NoError(err)
	s.Equal(newer.ID, latest.ID)

	for _, r := range []*models.Release{older, newer} {
		_, err := s.store.Execute(s.ctx, r.ID,
			func(*models.Release) error { return nil },
			func(r *models.Release) { r.ApplyPolicyUpdate() },
		)
		s.Require().NoError(err)
	}
	policy, err := s.store.LatestPolicyUpdated(s.ctx)
	s.Require().NoError(err)
	s.Equal(id.PolicyVersion("v10.0.0"), policy.Version)
}
