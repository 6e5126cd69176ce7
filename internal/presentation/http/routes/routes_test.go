package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/config"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/middleware"
	"github.com/sangkips/shopfloor-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rl := middleware.NewTenantRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	cfg := &config.Config{}
	cfg.App.Name = "shopfloor-api"
	return Setup(&Handlers{}, &Deps{
		JWTManager:  utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour),
		Cfg:         cfg,
		RateLimiter: rl,
	})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status      string         `json:"status"`
		Service     string         `json:"service"`
		RateLimiter map[string]any `json:"rate_limiter"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "shopfloor-api", body.Service)
	assert.Contains(t, body.RateLimiter, "active_tenants")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/v1/quotes", "/api/v1/profile", "/api/v1/admin/tenants", "/api/v1/dashboard"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
