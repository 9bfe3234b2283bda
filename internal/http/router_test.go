package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangaymabini/portal/internal/auth"
	"github.com/barangaymabini/portal/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:            5000,
		JWTSecret:       "test-secret-test-secret-test-secret",
		JWTAccessTTL:    time.Hour,
		AdminCode:       "ADMIN123",
		ModeratorCode:   "MOD123",
		RateLimitPublic: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		RateLimitAuth:   config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
}

func TestRouterAuthBoundaries(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg, nil, redis.NewClient(&redis.Options{Addr: "localhost:0"}))

	t.Run("health is public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("registry reads need a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/residents", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("viewers cannot mutate the registry", func(t *testing.T) {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
		token, _, err := jwtManager.GenerateAccessToken("9d3f9d2e-0000-0000-0000-000000000000", "viewer1", "viewer")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/residents", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("user management is admin only", func(t *testing.T) {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
		token, _, err := jwtManager.GenerateAccessToken("9d3f9d2e-0000-0000-0000-000000000000", "mod1", "moderator")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
