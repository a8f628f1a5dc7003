package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"clms/internal/knowledgegraph/handler/mocks"
	"clms/internal/knowledgegraph/models"
	dErrors "clms/pkg/domain-errors"
	"clms/pkg/testutil"
)

type GraphHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  http.Handler
}

func TestGraphHandlerSuite(t *testing.T) {
	suite.Run(t, new(GraphHandlerSuite))
}

func (s *GraphHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(s.service, logger).Register(r)
	s.router = r
}

func (s *GraphHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *GraphHandlerSuite) TestPutGraph() {
	body := map[string]any{"name": "Mathematics", "grades": []any{}}

	s.Run("editor replaces graph, id taken from path", func() {
		s.service.EXPECT().PutGraph(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, g *models.Graph) (*models.Summary, error) {
				s.Equal("g1", g.ID)
				return &models.Summary{ID: g.ID, Name: g.Name}, nil
			})

		req := testutil.WithAuth(testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/graphs/g1", body), "u1", "editor")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "id", "g1")
	})

	s.Run("viewer is forbidden", func() {
		req := testutil.WithAuth(testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/graphs/g1", body), "u1", "viewer")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("mismatched body id", func() {
		mismatched := map[string]any{"id": "other", "name": "X"}
		req := testutil.WithAuth(testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/graphs/g1", mismatched), "u1", "admin")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("unknown field", func() {
		req := testutil.WithAuth(testutil.NewRequestWithBody(s.T(), http.MethodPut, "/admin/graphs/g1", `{"nme":"x"}`), "u1", "admin")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *GraphHandlerSuite) TestSearchSkills() {
	s.Run("passes query and limit", func() {
		s.service.EXPECT().SearchSkills(gomock.Any(), "g1", "frac", 5).
			Return([]models.FlattenedSkill{{SkillID: "FRAC-1", GraphID: "g1"}}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/graphs/g1/skills?q=frac&limit=5"))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[skillsResponse](s.T(), rr)
		s.Require().Len(resp.Skills, 1)
		s.Equal("FRAC-1", resp.Skills[0].SkillID)
	})

	s.Run("bad limit", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/graphs/g1/skills?limit=abc"))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("unknown graph", func() {
		s.service.EXPECT().SearchSkills(gomock.Any(), "nope", "", 0).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "knowledge graph not found"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/graphs/nope/skills"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *GraphHandlerSuite) TestListAndGet() {
	s.service.EXPECT().ListGraphs(gomock.Any()).Return([]models.Summary{{ID: "g1", SkillCount: 3}}, nil)
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/graphs"))
	testutil.AssertStatusOK(s.T(), rr)
	list := testutil.UnmarshalResponse[graphListResponse](s.T(), rr)
	s.Require().Len(list.Graphs, 1)
	s.Equal(3, list.Graphs[0].SkillCount)

	s.service.EXPECT().GetGraph(gomock.Any(), "g1").Return(nil, dErrors.Wrap(io.ErrUnexpectedEOF, dErrors.CodeBackend, "failed to load graph"))
	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/graphs/g1"))
	testutil.AssertStatus(s.T(), rr, http.StatusBadGateway)
	errResp := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal("failed to load graph: unexpected EOF", errResp["error_description"])
}
