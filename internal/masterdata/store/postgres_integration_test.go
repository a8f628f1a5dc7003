//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clms/internal/masterdata/models"
	"clms/internal/masterdata/store"
	id "clms/pkg/domain"
	"clms/pkg/platform/sentinel"
	"clms/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres     *containers.PostgresContainer
	entries      *store.PostgresEntryStore
	types        *store.PostgresTypeStore
	publications *store.PostgresPublicationStore
	skill        *models.Type
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.entries = store.NewPostgresEntryStore(s.postgres.DB)
	s.types = store.NewPostgresTypeStore(s.postgres.DB)
	s.publications = store.NewPostgresPublicationStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	// Truncate in dependency order
	s.Require().NoError(s.postgres.TruncateTables(ctx, "masterdata_publications", "masterdata_entries", "masterdata_types"))

	skill, err := models.NewType(id.TypeID(uuid.New()), "skill", "curriculum skill", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.types.Create(ctx, skill))
	s.skill = skill
}

func (s *PostgresStoreSuite) newDraft(graphID id.GraphID, name string, createdAt time.Time) *models.Entry {
	e, err := models.NewDraftEntry(id.EntryID(uuid.New()), s.skill.ID, graphID, models.LocalizedName{"en": name, "hi": name + " (hi)"}, createdAt)
	s.Require().NoError(err)
	e.Metadata = map[string]any{"grade": "6"}
	return e
}

func (s *PostgresStoreSuite) TestTypeNameIsUnique() {
	for _, name := range []string{"skill", "Skill"} {
		dup, err := models.NewType(id.TypeID(uuid.New()), name, "", time.Now())
		s.Require().NoError(err)
		s.ErrorIs(s.types.Create(context.Background(), dup), sentinel.ErrConflict, name)
	}
}

func (s *PostgresStoreSuite) TestEntryRoundTrip() {
	ctx := context.Background()
	parent := s.newDraft("g1", "Numbers", time.Now().UTC())
	s.Require().NoError(s.entries.Create(ctx, parent))

	child := s.newDraft("g1", "Fractions", time.Now().UTC())
	child.ParentID = &parent.ID
	child.StateID = "KA"
	s.Require().NoError(s.entries.Create(ctx, child))

	found, err := s.entries.FindByID(ctx, child.ID)
	s.Require().NoError(err)
	s.Equal("Fractions", found.Name.Default())
	s.Equal("Fractions (hi)", found.Name["hi"])
	s.Require().NotNil(found.ParentID)
	s.Equal(parent.ID, *found.ParentID)
	s.Equal("KA", found.StateID)
	s.Equal("6", found.Metadata["grade"])
	s.True(found.IsDraft())
}

func (s *PostgresStoreSuite) TestCreateManyRollsBackOnConflict() {
	ctx := context.Background()
	existing := s.newDraft("g1", "Existing", time.Now().UTC())
	s.Require().NoError(s.entries.Create(ctx, existing))

	fresh := s.newDraft("g1", "Fresh", time.Now().UTC())
	err := s.entries.CreateMany(ctx, []*models.Entry{fresh, existing})
	s.ErrorIs(err, sentinel.ErrConflict)

	_, err = s.entries.FindByID(ctx, fresh.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestPublishDraftsAndRecord() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)
	drafts := []*models.Entry{
		s.newDraft("g1", "A", base),
		s.newDraft("g1", "B", base.Add(time.Second)),
		s.newDraft("g1", "C", base.Add(2*time.Second)),
	}
	s.Require().NoError(s.entries.CreateMany(ctx, drafts))

	count, err := s.entries.CountDrafts(ctx, "g1")
	s.Require().NoError(err)
	s.Equal(3, count)

	ids, err := s.entries.PublishDrafts(ctx, "g1", base.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal([]id.EntryID{drafts[0].ID, drafts[1].ID, drafts[2].ID}, ids)

	rec := &models.PublicationRecord{
		ID:           id.PublicationID(uuid.New()),
		GraphID:      "g1",
		Actor:        "admin-1",
		RecordsCount: len(ids),
		EntryIDs:     ids,
		CreatedAt:    base.Add(time.Hour),
	}
	s.Require().NoError(s.publications.Append(ctx, rec))

	records, err := s.publications.ListByGraph(ctx, "g1")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(3, records[0].RecordsCount)
	s.Equal(ids, records[0].EntryIDs)

	draftList, err := s.entries.List(ctx, models.EntryFilter{GraphID: "g1", Status: models.StatusDraft})
	s.Require().NoError(err)
	s.Empty(draftList)
	liveList, err := s.entries.List(ctx, models.EntryFilter{GraphID: "g1", Status: models.StatusLive})
	s.Require().NoError(err)
	s.Len(liveList, 3)
}

func (s *PostgresStoreSuite) TestSoftDeletedEntriesAreInvisible() {
	ctx := context.Background()
	e := s.newDraft("g1", "Gone", time.Now().UTC())
	s.Require().NoError(s.entries.Create(ctx, e))

	_, err := s.entries.Execute(ctx, e.ID,
		func(e *models.Entry) error { return e.CanSoftDelete() },
		func(e *models.Entry) { e.ApplySoftDelete(time.Now().UTC()) },
	)
	s.Require().NoError(err)

	_, err = s.entries.FindByID(ctx, e.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	list, err := s.entries.List(ctx, models.EntryFilter{GraphID: "g1"})
	s.Require().NoError(err)
	s.Empty(list)
	count, err := s.entries.CountDrafts(ctx, "g1")
	s.Require().NoError(err)
	s.Zero(count)
}
