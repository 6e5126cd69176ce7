package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/shopfloor-api/internal/infrastructure/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// customerRouter serves the customer routes for one user inside tenantID
func customerRouter(t *testing.T, h *CustomerHandler, userID, tenantID uuid.UUID) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("tenant_id", tenantID)
		c.Request = c.Request.WithContext(infraRepo.WithTenant(c.Request.Context(), tenantID))
		c.Next()
	})
	r.GET("/customers", h.List)
	r.POST("/customers", h.Create)
	r.GET("/customers/:id", h.Get)
	r.PUT("/customers/:id", h.Update)
	r.DELETE("/customers/:id", h.Delete)
	return r
}

func newCustomerHandler(t *testing.T) *CustomerHandler {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	svc := service.NewCustomerService(infraRepo.NewCustomerRepository(db), infraRepo.NewVendorRepository(db))
	return NewCustomerHandler(svc)
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Name":                "name",
		"CustomerID":          "customer_id",
		"TaxRatePercent":      "tax_rate_percent",
		"URL":                 "url",
		"HTTPServer":          "http_server",
		"ApplyTaxToDiscount":  "apply_tax_to_discount",
		"PurchaseOrderPrefix": "purchase_order_prefix",
	}
	for in, want := range cases {
		assert.Equal(t, want, snakeCase(in), in)
	}
}

func TestCustomerHandler_CRUD(t *testing.T) {
	h := newCustomerHandler(t)
	userID, tenantID := uuid.New(), uuid.New()
	r := customerRouter(t, h, userID, tenantID)

	w := do(r, http.MethodPost, "/customers", `{"name":"  Northside Cafe ","company":"Northside","email":"orders@northside.test"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID      uuid.UUID `json:"id"`
		Name    string    `json:"name"`
		Company string    `json:"company"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.Equal(t, "Northside Cafe", created.Name)

	w = do(r, http.MethodGet, "/customers/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPut, "/customers/"+created.ID.String(), `{"phone":"555-0100"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &updated))
	assert.Equal(t, "Northside Cafe", updated.Name, "omitted fields keep their value")
	assert.Equal(t, "555-0100", updated.Phone)

	w = do(r, http.MethodGet, "/customers?search=northside", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []json.RawMessage `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	assert.Len(t, page.Items, 1)
	assert.EqualValues(t, 1, page.Pagination.Total)

	// Another shop cannot see the customer
	other := customerRouter(t, h, uuid.New(), uuid.New())
	assert.Equal(t, http.StatusNotFound, do(other, http.MethodGet, "/customers/"+created.ID.String(), "").Code)

	w = do(r, http.MethodDelete, "/customers/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/customers/"+created.ID.String(), "").Code)
}

func TestCustomerHandler_Errors(t *testing.T) {
	h := newCustomerHandler(t)
	r := customerRouter(t, h, uuid.New(), uuid.New())

	t.Run("binding failures list snake_case fields", func(t *testing.T) {
		w := do(r, http.MethodPost, "/customers", `{"name":"Acme","tax_id":"`+strings.Repeat("9", 101)+`","email":"not-an-email"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)

		fields := map[string]string{}
		for _, fe := range env.Errors {
			fields[fe.Field] = fe.Message
		}
		assert.Equal(t, "must be at most 100", fields["tax_id"])
		assert.Equal(t, "must be a valid email address", fields["email"])
	})

	t.Run("missing name is reported by the service", func(t *testing.T) {
		w := do(r, http.MethodPost, "/customers", `{"company":"Nameless"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decode(t, w)
		require.Len(t, env.Errors, 1)
		assert.Equal(t, "name", env.Errors[0].Field)
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/customers", `{"name":`).Code)
	})

	t.Run("bad path ID is a bad request", func(t *testing.T) {
		w := do(r, http.MethodGet, "/customers/not-a-uuid", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid customer ID", decode(t, w).Message)
	})

	t.Run("unknown customer is not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/customers/"+uuid.NewString(), "").Code)
	})
}

func TestCustomerHandler_RequiresUser(t *testing.T) {
	h := newCustomerHandler(t)
	r := gin.New()
	r.POST("/customers", h.Create)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/customers", `{"name":"Acme"}`).Code)
}

func TestGoogleCallback_RejectsBadState(t *testing.T) {
	h := NewAuthHandler(nil, OAuthRedirects{
		SuccessURL: "https://app.shopfloor.test/auth/done",
		ErrorURL:   "https://app.shopfloor.test/auth/error",
	})
	r := gin.New()
	r.GET("/auth/google/callback", h.GoogleCallback)

	t.Run("missing cookie", func(t *testing.T) {
		w := do(r, http.MethodGet, "/auth/google/callback?state=abc&code=xyz", "")
		require.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "https://app.shopfloor.test/auth/error?error=invalid_state", w.Header().Get("Location"))
	})

	t.Run("mismatched state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc&code=xyz", nil)
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "def"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "error=invalid_state")
	})

	t.Run("provider error is passed through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc&error=access_denied", nil)
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "abc"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "https://app.shopfloor.test/auth/error?error=access_denied", w.Header().Get("Location"))
	})

	t.Run("no error page answers 400", func(t *testing.T) {
		bare := gin.New()
		bare.GET("/auth/google/callback", NewAuthHandler(nil, OAuthRedirects{}).GoogleCallback)
		w := do(bare, http.MethodGet, "/auth/google/callback?state=abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNotificationList_OnlyPagesForward(t *testing.T) {
	h := NewNotificationHandler(nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New())
		c.Next()
	})
	r.GET("/notifications", h.List)

	w := do(r, http.MethodGet, "/notifications?direction=prev", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOptionalParsers(t *testing.T) {
	assert.Nil(t, optionalUUID(""))
	assert.Nil(t, optionalUUID("nope"))
	id := uuid.New()
	require.NotNil(t, optionalUUID(id.String()))
	assert.Equal(t, id, *optionalUUID(id.String()))

	assert.Nil(t, optionalDate("2024-13-40"))
	d := optionalDate("2024-03-05")
	require.NotNil(t, d)
	assert.Equal(t, 5, d.Day())
}
