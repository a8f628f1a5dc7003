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
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"clms/internal/consent/handler/mocks"
	"clms/internal/consent/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	"clms/pkg/testutil"
)

type ConsentHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  http.Handler
}

func TestConsentHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConsentHandlerSuite))
}

func (s *ConsentHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	r := chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	s.router = r
}

func (s *ConsentHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ConsentHandlerSuite) TestGetConsent() {
	s.Run("returns status for the signed-in user", func() {
		s.service.EXPECT().Status(gomock.Any(), id.UserID("u1")).Return(&models.Status{
			UserID:         "u1",
			CurrentVersion: "v2.0.0",
			NeedsConsent:   true,
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/me/consent"), "u1"))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "needs_consent", true)
		testutil.AssertJSONContains(s.T(), rr, "current_version", "v2.0.0")
		testutil.AssertJSONContains(s.T(), rr, "record", nil)
	})

	s.Run("missing user is an internal error", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/me/consent"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
	})

	s.Run("backend failure", func() {
		s.service.EXPECT().Status(gomock.Any(), id.UserID("u1")).
			Return(nil, dErrors.Wrap(errors.New("redis down"), dErrors.CodeBackend, "failed to load consent"))

		rr := testutil.DoRequest(s.router, testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/me/consent"), "u1"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadGateway, string(dErrors.CodeBackend))
	})
}

func (s *ConsentHandlerSuite) TestAcceptTerms() {
	rec := models.NewAcceptance("v2.0.0", time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))
	gomock.InOrder(
		s.service.EXPECT().AcceptTerms(gomock.Any(), id.UserID("u1")).Return(&rec, nil),
		s.service.EXPECT().Status(gomock.Any(), id.UserID("u1")).Return(&models.Status{
			UserID:         "u1",
			CurrentVersion: "v2.0.0",
			Record:         &rec,
		}, nil),
	)

	rr := testutil.DoRequest(s.router, testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodPost, "/me/consent/accept"), "u1"))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[models.Status](s.T(), rr)
	s.False(resp.NeedsConsent)
	s.Require().NotNil(resp.Record)
	s.Equal("2026-04-01 12:00:00.000", *resp.Record.AcceptedAt)
}

func (s *ConsentHandlerSuite) TestResetConsent() {
	s.service.EXPECT().ResetConsent(gomock.Any(), id.UserID("u1")).Return(nil)

	rr := testutil.DoRequest(s.router, testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodPost, "/me/consent/reset"), "u1"))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
}
