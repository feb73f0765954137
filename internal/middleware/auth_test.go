package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qc-backend/internal/auth"
	"qc-backend/internal/config"
)

func TestAuthenticate(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "qc-backend"
	mgr := auth.NewJWTManager(cfg)

	mw := NewAuthMiddleware(mgr)

	var gotUsername string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUsername, _ = GetUsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := mw.Authenticate(next)

	t.Run("valid token passes and carries username", func(t *testing.T) {
		token, err := mgr.GenerateToken("operator")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/shifts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "operator", gotUsername)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/shifts", nil)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/shifts", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/shifts", nil)
		req.Header.Set("Authorization", "Bearer junk")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
