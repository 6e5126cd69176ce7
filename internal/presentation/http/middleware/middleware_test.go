package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/config"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/shopfloor-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// asUser stands in for AuthMiddleware
func asUser(userID uuid.UUID, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_roles", roles)
		c.Next()
	}
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestExtractTenantFromHost(t *testing.T) {
	slug, err := ExtractTenantFromHost("acme.shopfloor.app:8080")
	require.NoError(t, err)
	assert.Equal(t, "acme", slug)

	_, err = ExtractTenantFromHost("localhost:8080")
	assert.Error(t, err)
}

func TestTenantMiddleware(t *testing.T) {
	db := setupDB(t)
	tenants := infraRepo.NewTenantRepository(db)
	ctx := context.Background()

	member, outsider := uuid.New(), uuid.New()
	shop := &entity.Tenant{Name: "Acme Prints", Slug: "acme", OwnerID: member}
	require.NoError(t, tenants.Create(ctx, shop))
	require.NoError(t, tenants.AddMember(ctx, &entity.TenantMembership{TenantID: shop.ID, UserID: member, Role: "owner"}))

	newRouter := func(userID uuid.UUID, roles ...string) *gin.Engine {
		r := gin.New()
		r.Use(asUser(userID, roles...), TenantMiddleware(tenants))
		r.GET("/whoami", func(c *gin.Context) {
			scoped, _ := infraRepo.GetTenantID(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"tenant": GetTenantID(c).String(), "scoped": scoped.String()})
		})
		return r
	}

	t.Run("header selects the tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(TenantHeader, shop.ID.String())
		w := serve(newRouter(member), req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"tenant":"`+shop.ID.String()+`"`)
		assert.Contains(t, w.Body.String(), `"scoped":"`+shop.ID.String()+`"`)
	})

	t.Run("subdomain selects the tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Host = "acme.shopfloor.app"
		w := serve(newRouter(member), req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), shop.ID.String())
	})

	t.Run("token claim is the fallback", func(t *testing.T) {
		r := gin.New()
		r.Use(asUser(member), func(c *gin.Context) {
			c.Set("token_tenant_id", shop.ID)
			c.Next()
		}, TenantMiddleware(tenants))
		r.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, GetTenantID(c).String()) })

		w := serve(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, shop.ID.String(), w.Body.String())
	})

	t.Run("no tenant is a bad request", func(t *testing.T) {
		w := serve(newRouter(member), httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-members are forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(TenantHeader, shop.ID.String())
		w := serve(newRouter(outsider), req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("super-admin may enter any shop", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(TenantHeader, shop.ID.String())
		w := serve(newRouter(outsider, "super-admin"), req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), shop.ID.String())
	})

	t.Run("super-admin without a tenant skips the scope", func(t *testing.T) {
		r := gin.New()
		r.Use(asUser(outsider, "super-admin"), TenantMiddleware(tenants))
		r.GET("/whoami", func(c *gin.Context) {
			if skip, _ := c.Request.Context().Value(infraRepo.SkipTenantScopeKey).(bool); skip {
				c.String(http.StatusOK, "unscoped")
				return
			}
			c.String(http.StatusOK, "scoped")
		})
		w := serve(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "unscoped", w.Body.String())
	})
}

func TestRequireTenant(t *testing.T) {
	r := gin.New()
	r.GET("/none", RequireTenant(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/some", func(c *gin.Context) {
		c.Set("tenant_id", uuid.New())
		c.Next()
	}, RequireTenant(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusBadRequest, serve(r, httptest.NewRequest(http.MethodGet, "/none", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/some", nil)).Code)
}

func TestRequirePermission(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_permissions", []string{"manage-quotes"})
		c.Next()
	})
	r.GET("/quotes", RequirePermission("manage-quotes"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/invoices", RequirePermission("manage-invoices"), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/quotes", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/invoices", nil)).Code)
}

func TestIdempotency(t *testing.T) {
	db := setupDB(t)
	repo := infraRepo.NewIdempotencyRepository(db)
	userID := uuid.New()

	calls := 0
	r := gin.New()
	r.Use(asUser(userID))
	r.POST("/quotes", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"number": calls})
	})
	r.POST("/jobs", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	post := func(path, key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		return serve(r, req)
	}

	first := post("/quotes", "key-1", `{"customer":"a"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	replay := post("/quotes", "key-1", `{"customer":"a"}`)
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(IdempotencyReplayedHeader))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, calls, "replay must not run the handler again")

	mismatch := post("/quotes", "key-1", `{"customer":"b"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, mismatch.Code)

	otherEndpoint := post("/jobs", "key-1", `{"customer":"a"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, otherEndpoint.Code)

	noKey := post("/quotes", "", `{"customer":"a"}`)
	require.Equal(t, http.StatusCreated, noKey.Code)
	assert.Equal(t, 2, calls)

	tooLong := post("/quotes", strings.Repeat("k", 256), `{}`)
	assert.Equal(t, http.StatusBadRequest, tooLong.Code)
}

func TestIdempotency_FailuresAreNotStored(t *testing.T) {
	db := setupDB(t)
	repo := infraRepo.NewIdempotencyRepository(db)

	fail := true
	r := gin.New()
	r.Use(asUser(uuid.New()))
	r.POST("/invoices", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		if fail {
			c.JSON(http.StatusConflict, gin.H{"error": "busy"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	req := func() *httptest.ResponseRecorder {
		rq := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(`{}`))
		rq.Header.Set(IdempotencyKeyHeader, "retry-me")
		return serve(r, rq)
	}

	assert.Equal(t, http.StatusConflict, req().Code)
	fail = false
	w := req()
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get(IdempotencyReplayedHeader))
}

func TestIdempotency_RequiredKey(t *testing.T) {
	db := setupDB(t)
	r := gin.New()
	r.Use(asUser(uuid.New()))
	r.POST("/pay", Idempotency(IdempotencyConfig{Repo: infraRepo.NewIdempotencyRepository(db), Required: true}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenantRateLimiter(t *testing.T) {
	rl := NewTenantRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Hour,
	})
	defer rl.Stop()

	tenantA, tenantB := uuid.New(), uuid.New()
	current := tenantA
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("tenant_id", current)
		c.Next()
	}, rl.Middleware())
	r.GET("/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func() *httptest.ResponseRecorder {
		return serve(r, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	}

	assert.Equal(t, http.StatusOK, get().Code)
	assert.Equal(t, http.StatusOK, get().Code)

	limited := get()
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Equal(t, "2", limited.Header().Get("X-RateLimit-Limit"))

	current = tenantB
	assert.Equal(t, http.StatusOK, get().Code, "budgets are per tenant")

	stats := rl.Stats()
	assert.Equal(t, 2, stats["active_tenants"])
	assert.Equal(t, false, stats["distributed"])
}

func TestTenantRateLimiter_Cleanup(t *testing.T) {
	rl := NewTenantRateLimiter(RateLimiterConfig{CleanupInterval: time.Hour, EntryTTL: time.Millisecond})
	defer rl.Stop()

	rl.getLimiter(uuid.New())
	time.Sleep(5 * time.Millisecond)
	rl.cleanup()

	assert.Equal(t, 0, rl.Stats()["active_tenants"])
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{AllowedOrigins: []string{"https://app.shopfloor.test"}}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://app.shopfloor.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := serve(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.shopfloor.test", w.Header().Get("Access-Control-Allow-Origin"))
}
