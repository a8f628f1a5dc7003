package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clms/internal/consent"
	consentstore "clms/internal/consent/store"
	jwttoken "clms/internal/jwt_token"
	"clms/internal/knowledgegraph"
	graphstore "clms/internal/knowledgegraph/store"
	"clms/internal/masterdata"
	mdservice "clms/internal/masterdata/service"
	mdstore "clms/internal/masterdata/store"
	"clms/internal/release"
	releasestore "clms/internal/release/store"
	audit "clms/pkg/platform/audit"
	"clms/pkg/platform/audit/publishers/compliance"
	auditmemory "clms/pkg/platform/audit/store/memory"
	"clms/pkg/testutil"
)

type testServer struct {
	router http.Handler
	audit  *auditmemory.InMemoryStore
	tokens *jwttoken.JWTService
}

func newTestServer(t *testing.T, checks map[string]HealthCheck) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditStore := auditmemory.NewInMemoryStore()
	publisher := compliance.New(auditStore)

	graphs := knowledgegraph.NewService(graphstore.NewInMemory())
	md := masterdata.NewService(
		mdstore.NewInMemoryEntryStore(),
		mdstore.NewInMemoryTypeStore(),
		mdstore.NewInMemoryPublicationStore(),
		graphs,
		mdservice.WithLogger(logger),
		mdservice.WithAuditPublisher(publisher),
	)
	releases := release.NewService(releasestore.NewInMemory(), "v1.0.0")
	consents := consent.NewService(consentstore.NewInMemoryKV(), releases)

	tokens := jwttoken.NewJWTService("test-signing-key", "clms")
	router := NewRouter(Deps{
		Logger:       logger,
		Validator:    jwttoken.NewJWTServiceAdapter(tokens),
		Graphs:       knowledgegraph.NewHandler(graphs, logger),
		MasterData:   masterdata.NewHandler(md, logger),
		Consent:      consent.NewHandler(consents, logger),
		Releases:     release.NewHandler(releases, logger),
		HealthChecks: checks,
	})
	return &testServer{router: router, audit: auditStore, tokens: tokens}
}

func (s *testServer) call(t *testing.T, method, path, userID string, roles []string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = testutil.NewJSONRequest(t, method, path, body)
	} else {
		req = testutil.NewRequest(t, method, path)
	}
	if userID != "" {
		token, err := s.tokens.GenerateAccessToken(userID, roles, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return testutil.DoRequest(s.router, req)
}

var admin = []string{"admin"}

func sampleGraph() map[string]any {
	return map[string]any{
		"id":   "g1",
		"name": "Primary Maths",
		"grades": []any{map[string]any{
			"id": "gr1", "name": "Grade 1",
			"subjects": []any{map[string]any{
				"id": "sub1", "name": "Maths",
				"strands": []any{map[string]any{
					"id": "st1", "name": "Number",
					"topics": []any{map[string]any{
						"id": "t1", "name": "Fractions",
						"learning_outcomes": []any{map[string]any{
							"id": "lo1", "name": "Compare fractions",
							"subtopics": []any{map[string]any{
								"id": "sbt1", "name": "Halves",
								"skills": []any{map[string]any{
									"id": "sk1", "name": "Identify halves", "cognitive_level": "Knowing",
								}},
							}},
						}},
					}},
				}},
			}},
		}},
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.call(t, http.MethodGet, "/admin/graphs", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = s.call(t, http.MethodGet, "/policy/version", "", nil, nil)
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "version", "v1.0.0")
	testutil.AssertJSONContains(t, rr, "source", "default")
}

func TestHealthz(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		s := newTestServer(t, map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		})
		rr := s.call(t, http.MethodGet, "/healthz", "", nil, nil)
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("failing check degrades", func(t *testing.T) {
		s := newTestServer(t, map[string]HealthCheck{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		rr := s.call(t, http.MethodGet, "/healthz", "", nil, nil)
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "status", "degraded")
	})
}

func TestGraphToPublishedEntries(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.call(t, http.MethodPut, "/admin/graphs/g1", "admin-1", admin, sampleGraph())
	testutil.AssertStatusOK(t, rr)

	rr = s.call(t, http.MethodGet, "/admin/graphs/g1/skills?q=SK", "viewer-1", []string{"viewer"}, nil)
	testutil.AssertStatusOK(t, rr)
	skills := testutil.UnmarshalResponse[struct {
		Skills []map[string]any `json:"skills"`
	}](t, rr)
	require.Len(t, skills.Skills, 1)

	rr = s.call(t, http.MethodPost, "/admin/master-data/types", "editor-1", []string{"editor"}, map[string]string{"name": "skill"})
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[struct {
		ID string `json:"id"`
	}](t, rr)

	for _, name := range []string{"Halves", "Quarters"} {
		rr = s.call(t, http.MethodPost, "/admin/graphs/g1/entries", "editor-1", []string{"editor"}, map[string]any{
			"type_id": created.ID,
			"name":    map[string]string{"en": name},
		})
		testutil.AssertStatus(t, rr, http.StatusCreated)
	}

	rr = s.call(t, http.MethodPost, "/admin/graphs/g1/publish", "editor-1", []string{"editor"}, nil)
	testutil.AssertStatus(t, rr, http.StatusForbidden)

	rr = s.call(t, http.MethodPost, "/admin/graphs/g1/publish", "pub-1", []string{"publisher"}, nil)
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "count", float64(2))

	rr = s.call(t, http.MethodPost, "/admin/graphs/g1/publish", "pub-1", []string{"publisher"}, nil)
	testutil.AssertStatus(t, rr, http.StatusConflict)

	rr = s.call(t, http.MethodGet, "/admin/graphs/g1/entries?status=live", "viewer-1", []string{"viewer"}, nil)
	testutil.AssertStatusOK(t, rr)
	live := testutil.UnmarshalResponse[struct {
		Entries []map[string]any `json:"entries"`
	}](t, rr)
	assert.Len(t, live.Entries, 2)

	events := s.audit.ListByAction(context.Background(), audit.EventEntriesPublished)
	require.Len(t, events, 1)
	assert.Equal(t, "pub-1", events[0].ActorID)
	assert.Equal(t, 2, events[0].Count)
}

func TestPolicyChangeForcesReconsent(t *testing.T) {
	s := newTestServer(t, nil)
	user := []string{"viewer"}

	createRelease := func(t *testing.T, version string) {
		rr := s.call(t, http.MethodPost, "/admin/releases", "admin-1", admin, map[string]string{"version": version, "type": "Major"})
		testutil.AssertStatus(t, rr, http.StatusCreated)
	}
	publishPolicy := func(t *testing.T) {
		rr := s.call(t, http.MethodPost, "/admin/releases/policy-change", "admin-1", admin, nil)
		testutil.AssertStatusOK(t, rr)
	}

	testutil.Given(t, "a learner who never accepted", func(t *testing.T) {
		rr := s.call(t, http.MethodGet, "/me/consent", "learner-1", user, nil)
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "needs_consent", true)

		testutil.When(t, "v1.5.0 becomes the policy and the learner accepts", func(t *testing.T) {
			createRelease(t, "v1.5.0")
			publishPolicy(t)
			rr := s.call(t, http.MethodPost, "/me/consent/accept", "learner-1", user, nil)
			testutil.AssertStatusOK(t, rr)

			testutil.Then(t, "no prompt is needed", func(t *testing.T) {
				testutil.AssertJSONContains(t, rr, "needs_consent", false)
				testutil.AssertJSONContains(t, rr, "current_version", "v1.5.0")
			})
		})

		testutil.When(t, "v2.0.0 is released without a policy change", func(t *testing.T) {
			createRelease(t, "v2.0.0")

			testutil.Then(t, "the earlier acceptance still holds", func(t *testing.T) {
				rr := s.call(t, http.MethodGet, "/me/consent", "learner-1", user, nil)
				testutil.AssertJSONContains(t, rr, "needs_consent", false)
			})
		})

		testutil.When(t, "the policy change for v2.0.0 is published", func(t *testing.T) {
			publishPolicy(t)

			testutil.Then(t, "every user must accept again", func(t *testing.T) {
				rr := s.call(t, http.MethodGet, "/me/consent", "learner-1", user, nil)
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "needs_consent", true)
				testutil.AssertJSONContains(t, rr, "current_version", "v2.0.0")

				rr = s.call(t, http.MethodGet, "/me/consent", "learner-2", user, nil)
				testutil.AssertJSONContains(t, rr, "needs_consent", true)
			})
		})
	})
}
