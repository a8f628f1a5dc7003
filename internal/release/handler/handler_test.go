package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"clms/internal/release/handler/mocks"
	"clms/internal/release/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	"clms/pkg/testutil"
)

type ReleaseHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  http.Handler
}

func TestReleaseHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReleaseHandlerSuite))
}

func (s *ReleaseHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterPublic(r)
	s.router = r
}

func (s *ReleaseHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func release(version string, policyUpdated bool) *models.Release {
	now := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	return &models.Release{
		ID:            id.ReleaseID(uuid.New()),
		Version:       id.PolicyVersion(version),
		Type:          models.ReleaseMajor,
		ReleaseDate:   now,
		PolicyUpdated: policyUpdated,
		CreatedAt:     now,
	}
}

func (s *ReleaseHandlerSuite) TestCreateRelease() {
	body := map[string]string{"version": "v2.0.0", "type": "Major"}

	s.Run("admin creates a release", func() {
		s.service.EXPECT().CreateRelease(gomock.Any(), models.CreateReleaseRequest{Version: "v2.0.0", Type: "Major"}).
			Return(release("v2.0.0", false), nil)

		req := testutil.WithAuth(testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/releases", body), "u1", "admin")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "version", "v2.0.0")
		testutil.AssertJSONContains(s.T(), rr, "policy_updated", false)
	})

	s.Run("publisher lacks releases:manage", func() {
		req := testutil.WithAuth(testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/releases", body), "u1", "publisher")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("duplicate version", func() {
		s.service.EXPECT().CreateRelease(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "release version already exists"))

		req := testutil.WithAuth(testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/releases", body), "u1", "admin")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
	})

	s.Run("malformed body", func() {
		req := testutil.WithAuth(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/admin/releases", "{"), "u1", "admin")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *ReleaseHandlerSuite) TestListAndLatest() {
	s.Run("lists releases for any signed-in user", func() {
		s.service.EXPECT().ListReleases(gomock.Any()).Return([]*models.Release{release("v2.0.0", false), release("v1.5.0", true)}, nil)

		rr := testutil.DoRequest(s.router, testutil.WithAuth(testutil.NewRequest(s.T(), http.MethodGet, "/admin/releases"), "u1", "viewer"))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[releasesResponse](s.T(), rr)
		s.Require().Len(resp.Releases, 2)
		s.Equal(id.PolicyVersion("v2.0.0"), resp.Releases[0].Version)
	})

	s.Run("latest with no releases", func() {
		s.service.EXPECT().LatestRelease(gomock.Any()).Return(nil, dErrors.New(dErrors.CodeNotFound, "no release exists"))

		rr := testutil.DoRequest(s.router, testutil.WithAuth(testutil.NewRequest(s.T(), http.MethodGet, "/admin/releases/latest"), "u1", "viewer"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})
}

func (s *ReleaseHandlerSuite) TestPublishPolicyChange() {
	s.Run("flags the latest release", func() {
		s.service.EXPECT().PublishPolicyChange(gomock.Any()).Return(release("v2.0.0", true), nil)

		rr := testutil.DoRequest(s.router, testutil.WithAuth(testutil.NewRequest(s.T(), http.MethodPost, "/admin/releases/policy-change"), "u1", "admin"))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "policy_updated", true)
	})

	s.Run("editor is forbidden", func() {
		rr := testutil.DoRequest(s.router, testutil.WithAuth(testutil.NewRequest(s.T(), http.MethodPost, "/admin/releases/policy-change"), "u1", "editor"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("audit failure surfaces as backend error", func() {
		s.service.EXPECT().PublishPolicyChange(gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("outbox down"), dErrors.CodeBackend, "failed to record policy change audit event"))

		rr := testutil.DoRequest(s.router, testutil.WithAuth(testutil.NewRequest(s.T(), http.MethodPost, "/admin/releases/policy-change"), "u1", "admin"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadGateway, string(dErrors.CodeBackend))
	})
}

func (s *ReleaseHandlerSuite) TestCurrentPolicyIsPublic() {
	s.service.EXPECT().CurrentPolicy(gomock.Any()).
		Return(&models.PolicyVersionResponse{Version: "v1.0.0", Source: "default"}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/policy/version"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "version", "v1.0.0")
	testutil.AssertJSONContains(s.T(), rr, "source", "default")
}
