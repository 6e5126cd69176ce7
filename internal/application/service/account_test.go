package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/infrastructure/cache"
	infraRepo "github.com/sangkips/shopfloor-api/internal/infrastructure/repository"
	"github.com/sangkips/shopfloor-api/pkg/stripe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) authService(t *testing.T) *AuthService {
	t.Helper()
	roleRepo := infraRepo.NewRoleRepository(e.db)
	require.NoError(t, roleRepo.Create(context.Background(), &entity.Role{Name: "user", GuardName: "web"}))
	return NewAuthService(
		infraRepo.NewUserRepository(e.db),
		roleRepo,
		infraRepo.NewTenantRepository(e.db),
		infraRepo.NewPasswordResetTokenRepository(e.db),
		e.settings,
		newTestJWT(),
		e.mailer,
		nil,
	)
}

func TestAuth_RegisterProvisionsShop(t *testing.T) {
	e := newEnv(t)
	auth := e.authService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, &RegisterInput{
		FirstName: "Robin",
		LastName:  "Lee",
		Email:     " Robin@Example.com ",
		Password:  "s3cret-pass",
		ShopName:  "Robin Print Lab",
	})
	require.NoError(t, err)
	assert.Equal(t, "robin@example.com", user.Email)

	out, err := auth.Login(ctx, &LoginInput{Email: "robin@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEqual(t, "", out.AccessToken)
	require.NotEqual(t, "", out.RefreshToken)

	claims, err := newTestJWT().ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, out.TenantID, claims.TenantID)
	assert.Contains(t, claims.Roles, "user")

	tenant, err := infraRepo.NewTenantRepository(e.db).GetByID(ctx, out.TenantID)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, "robin-print-lab", tenant.Slug)
	assert.Equal(t, user.ID, tenant.OwnerID)

	settings, err := e.settings.ForTenant(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robin Print Lab", settings.BusinessName)
	assert.Equal(t, "robin@example.com", settings.Email)

	_, err = auth.Login(ctx, &LoginInput{Email: "robin@example.com", Password: "wrong"})
	requireCode(t, err, http.StatusUnauthorized)
}

func TestAuth_RegisterRejectsDuplicateEmailAndDedupesSlug(t *testing.T) {
	e := newEnv(t)
	auth := e.authService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterInput{FirstName: "A", LastName: "One", Email: "a@example.com", Password: "password1", ShopName: "Sign Shop"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, &RegisterInput{FirstName: "A", LastName: "One", Email: "A@example.com", Password: "password1"})
	requireCode(t, err, http.StatusConflict)

	_, err = auth.Register(ctx, &RegisterInput{FirstName: "B", LastName: "Two", Email: "b@example.com", Password: "password1", ShopName: "Sign Shop"})
	require.NoError(t, err)
	second, err := infraRepo.NewTenantRepository(e.db).GetBySlug(ctx, "sign-shop-2")
	require.NoError(t, err)
	assert.NotNil(t, second)
}

func TestAuth_ForgotAndResetPassword(t *testing.T) {
	e := newEnv(t)
	e.mailer.configured = true
	auth := e.authService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterInput{FirstName: "Pat", LastName: "Doe", Email: "pat@example.com", Password: "old-password"})
	require.NoError(t, err)

	require.NoError(t, auth.ForgotPassword(ctx, &ForgotPasswordInput{Email: "nobody@example.com"}))
	assert.Empty(t, e.mailer.resets, "unknown addresses get no mail")

	require.NoError(t, auth.ForgotPassword(ctx, &ForgotPasswordInput{Email: "pat@example.com"}))
	require.Len(t, e.mailer.resets, 1)
	token := e.mailer.resets[0][len("pat@example.com:"):]

	require.NoError(t, auth.ResetPassword(ctx, &ResetPasswordInput{Email: "pat@example.com", Token: token, NewPassword: "new-password"}))
	_, err = auth.Login(ctx, &LoginInput{Email: "pat@example.com", Password: "new-password"})
	require.NoError(t, err)

	err = auth.ResetPassword(ctx, &ResetPasswordInput{Email: "pat@example.com", Token: token, NewPassword: "another-one"})
	assert.Error(t, err, "tokens are single use")
}

func TestBilling_WebhookUpdatesTenantOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tenantRepo := infraRepo.NewTenantRepository(e.db)
	tenant := &entity.Tenant{Name: "Shop", Slug: "shop", OwnerID: e.userID}
	require.NoError(t, tenantRepo.Create(ctx, tenant))

	const secret = "whsec_test"
	billing := NewBillingService(
		stripe.NewWebhook(secret, stripe.DefaultTolerance),
		infraRepo.NewBillingEventRepository(e.db),
		tenantRepo,
		e.notifier,
		nil,
	)

	payload := []byte(fmt.Sprintf(`{"id":"evt_1","type":"checkout.session.completed","created":1760000000,
		"data":{"object":{"customer":"cus_9","subscription":"sub_9","mode":"subscription",
		"metadata":{"tenant_id":%q,"plan":"pro"}}}}`, tenant.ID.String()))
	header := stripe.SignatureHeaderValue(secret, payload, time.Now())

	result, err := billing.HandleWebhook(ctx, payload, header)
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, entity.BillingEventProcessed, result.Outcome)

	updated, err := tenantRepo.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SubscriptionStatusActive, updated.SubscriptionStatus)
	assert.Equal(t, "pro", updated.SubscriptionPlan)
	require.NotNil(t, updated.StripeCustomerID)
	assert.Equal(t, "cus_9", *updated.StripeCustomerID)
	assert.Len(t, e.notifier.ofType(entity.NotificationSubscriptionChange), 1)

	again, err := billing.HandleWebhook(ctx, payload, header)
	require.NoError(t, err)
	assert.True(t, again.Duplicate)
	assert.Len(t, e.notifier.ofType(entity.NotificationSubscriptionChange), 1)

	_, err = billing.HandleWebhook(ctx, payload, stripe.SignatureHeaderValue("wrong", payload, time.Now()))
	requireCode(t, err, http.StatusBadRequest)
}

func TestBilling_NotConfigured(t *testing.T) {
	e := newEnv(t)
	billing := NewBillingService(stripe.NewWebhook("", 0), infraRepo.NewBillingEventRepository(e.db),
		infraRepo.NewTenantRepository(e.db), e.notifier, nil)

	_, err := billing.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=x")
	requireCode(t, err, http.StatusServiceUnavailable)
}

func TestDashboard_CachedUntilInvalidated(t *testing.T) {
	e := newEnv(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	dashCache := cache.NewDashboardCache(client, time.Minute)

	dashboard := NewDashboardService(
		infraRepo.NewDashboardRepository(e.db),
		infraRepo.NewQuoteRepository(e.db),
		infraRepo.NewJobRepository(e.db),
		infraRepo.NewMaterialRepository(e.db),
		dashCache,
	)

	e.customer(t, "First", nil)
	e.material(t, "Low thing", 1, 2, 0, 5)

	stats, err := dashboard.GetDashboardStats(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Len(t, stats.DailyRevenueData, 7)

	e.customer(t, "Second", nil)
	stats, err = dashboard.GetDashboardStats(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalCustomers, "served from cache")

	require.NoError(t, dashCache.Invalidate(e.ctx, e.tenantID))
	stats, err = dashboard.GetDashboardStats(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCustomers)
}

func TestDashboard_RevenueFromPaidInvoices(t *testing.T) {
	e := newEnv(t)
	dashboard := NewDashboardService(
		infraRepo.NewDashboardRepository(e.db),
		infraRepo.NewQuoteRepository(e.db),
		infraRepo.NewJobRepository(e.db),
		infraRepo.NewMaterialRepository(e.db),
		nil,
	)

	job := e.completedJob(t, nil)
	invoice, err := e.invoices.GenerateFromJob(e.ctx, job.ID, e.userID)
	require.NoError(t, err)

	stats, err := dashboard.GetDashboardStats(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.UnpaidInvoices)
	assert.Equal(t, 100.0, stats.Receivables)
	assert.Zero(t, stats.TotalRevenue)

	_, err = e.invoices.MarkPaid(e.ctx, &MarkPaidInput{ID: invoice.ID})
	require.NoError(t, err)
	stats, err = dashboard.GetDashboardStats(e.ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.UnpaidInvoices)
	assert.Equal(t, 100.0, stats.TotalRevenue)
	assert.Equal(t, 100.0, stats.MonthlyRevenue)
}

func TestMaterial_SKUGeneration(t *testing.T) {
	e := newEnv(t)

	first := e.material(t, "Gloss Vinyl", 1, 2, 0, 0)
	second := e.material(t, "Gloss Vinyl", 1, 2, 0, 0)
	assert.NotEmpty(t, first.SKU)
	assert.Equal(t, first.SKU+"-2", second.SKU)

	_, err := e.materials.CreateMaterial(e.ctx, &MaterialInput{Name: ptr("Other"), Unit: ptr("m"), SKU: ptr(first.SKU)})
	requireCode(t, err, http.StatusConflict)

	_, err = e.materials.CreateMaterial(e.ctx, &MaterialInput{Name: ptr("Bad"), Unit: ptr("m"), PurchasePrice: ptr(-1.0)})
	requireCode(t, err, http.StatusUnprocessableEntity)
}

func TestSettings_Validation(t *testing.T) {
	e := newEnv(t)

	settings, err := e.settings.GetSettings(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", settings.Currency)

	_, err = e.settings.UpdateSettings(e.ctx, &UpdateSettingsInput{
		DefaultTaxRatePercent: ptr(150.0),
		QuotePrefix:           ptr(""),
	})
	requireCode(t, err, http.StatusUnprocessableEntity)

	updated, err := e.settings.UpdateSettings(e.ctx, &UpdateSettingsInput{Currency: ptr(" eur "), QuotePrefix: ptr("EST-")})
	require.NoError(t, err)
	assert.Equal(t, "EUR", updated.Currency)
	assert.Equal(t, "EST-", updated.QuotePrefix)

	_, err = e.settings.GetSettings(context.Background())
	require.Error(t, err, "settings need a tenant")
}

func TestEquipment_PricedByInk(t *testing.T) {
	e := newEnv(t)
	uv := e.uvPrinter(t)
	assert.True(t, uv.PricedByInk)
	assert.True(t, uv.Active)

	cutter, err := e.equipment.CreateEquipment(e.ctx, &EquipmentInput{Name: ptr("Plotter"), Category: ptr("Cutter"), HourlyRate: ptr(30.0)})
	require.NoError(t, err)
	assert.False(t, cutter.PricedByInk)

	_, err = e.equipment.CreateEquipment(e.ctx, &EquipmentInput{Name: ptr("Nameless")})
	requireCode(t, err, http.StatusUnprocessableEntity)
}
