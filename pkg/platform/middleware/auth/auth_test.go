package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "clms/pkg/domain"
	"clms/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAuth(t *testing.T) {
	var seenUser id.UserID
	var seenCaps id.Capabilities
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = requestcontext.UserID(r.Context())
		seenCaps = requestcontext.Capabilities(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		h := RequireAuth(stubValidator{}, discardLogger())(next)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		h := RequireAuth(stubValidator{err: errors.New("bad signature")}, discardLogger())(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token resolves user and capabilities", func(t *testing.T) {
		h := RequireAuth(stubValidator{claims: &JWTClaims{UserID: "author-1", Roles: []string{"publisher"}}}, discardLogger())(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, id.UserID("author-1"), seenUser)
		assert.True(t, seenCaps.Has(id.CapabilityMasterDataPublish))
		assert.False(t, seenCaps.Has(id.CapabilityReleasesManage))
	})
}

func TestRequireCapability(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireCapability(id.CapabilityMasterDataPublish, discardLogger())(next)

	t.Run("denied without capability", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(requestcontext.WithCapabilities(req.Context(), id.ResolveCapabilities([]string{"editor"})))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("allowed with capability", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(requestcontext.WithCapabilities(req.Context(), id.ResolveCapabilities([]string{"admin"})))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
