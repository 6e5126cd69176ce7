package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/config"
	domainRepo "github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/internal/infrastructure/database"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/handler"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/middleware"
	"github.com/sangkips/shopfloor-api/pkg/telemetry"
	"github.com/sangkips/shopfloor-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth          *handler.AuthHandler
	Tenant        *handler.TenantHandler
	User          *handler.UserHandler
	Customer      *handler.CustomerHandler
	Vendor        *handler.VendorHandler
	Material      *handler.MaterialHandler
	Equipment     *handler.EquipmentHandler
	Quote         *handler.QuoteHandler
	Job           *handler.JobHandler
	Invoice       *handler.InvoiceHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Settings      *handler.SettingsHandler
	Dashboard     *handler.DashboardHandler
	Notification  *handler.NotificationHandler
	Billing       *handler.BillingHandler
	Printer       *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	TenantRepo      domainRepo.TenantRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.TenantRateLimiter
	Metrics         *telemetry.Metrics
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		}
		if deps.RateLimiter != nil {
			body["rate_limiter"] = deps.RateLimiter.Stats()
		}
		c.JSON(200, body)
	})

	if deps.Cfg.Metrics.Enabled && deps.Metrics != nil {
		router.GET(deps.Cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)
		v1.POST("/billing/stripe/webhook", h.Billing.StripeWebhook)

		// Account routes need a user but no active shop
		account := v1.Group("")
		account.Use(middleware.AuthMiddleware(deps.JWTManager))
		registerAccountRoutes(account, h)

		// Shop routes are scoped to the resolved tenant and rate limited per tenant
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerAccountRoutes(account *gin.RouterGroup, h *Handlers) {
	account.POST("/auth/logout", h.Auth.Logout)
	account.GET("/profile", h.Auth.GetProfile)
	account.PUT("/profile", h.Auth.UpdateProfile)
	account.PUT("/profile/password", h.Auth.ChangePassword)

	account.GET("/tenants", h.Tenant.ListTenants)
	account.POST("/tenants", h.Tenant.Create)
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	// Document numbering and shop settings need a concrete shop, even for super-admins
	shop := protected.Group("")
	shop.Use(middleware.RequireTenant())

	// Settings
	settings := shop.Group("/settings")
	{
		settings.GET("", h.Settings.GetSettings)
		settings.PUT("", middleware.RequirePermission(database.PermManageSettings), h.Settings.UpdateSettings)
	}

	// Dashboard
	shop.GET("/dashboard", middleware.RequirePermission(database.PermViewDashboard), h.Dashboard.GetStats)

	// Notifications
	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.POST("/read-all", h.Notification.MarkAllRead)
		notifications.POST("/:id/read", h.Notification.MarkRead)
	}

	// Billing
	protected.GET("/billing/subscription", h.Billing.GetSubscription)

	registerTenantRoutes(protected, h)
	registerContactRoutes(protected, h, idempotent)
	registerCatalogRoutes(protected, h, idempotent)
	registerQuoteRoutes(shop, h, idempotent)
	registerJobRoutes(shop, h, idempotent)
	registerInvoiceRoutes(shop, h)
	registerPurchaseOrderRoutes(shop, h, idempotent)
	registerUserRoutes(protected, h)
	registerAdminRoutes(protected, h)
	registerPrinterRoutes(shop, h)
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants/current")
	{
		tenants.GET("", h.Tenant.GetCurrentTenant)
		tenants.PUT("", h.Tenant.UpdateTenant)
		tenants.GET("/members", h.Tenant.ListMembers)
		tenants.POST("/members", h.Tenant.InviteMember)
		tenants.PUT("/members/:user_id", h.Tenant.UpdateMemberRole)
		tenants.DELETE("/members/:user_id", h.Tenant.RemoveMember)
	}
}

func registerContactRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission(database.PermManageCustomers))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", idempotent, h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}

	vendors := protected.Group("/vendors")
	vendors.Use(middleware.RequirePermission(database.PermManageVendors))
	{
		vendors.GET("", h.Vendor.List)
		vendors.POST("", idempotent, h.Vendor.Create)
		vendors.GET("/:id", h.Vendor.Get)
		vendors.PUT("/:id", h.Vendor.Update)
		vendors.DELETE("/:id", h.Vendor.Delete)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	materials := protected.Group("/materials")
	materials.Use(middleware.RequirePermission(database.PermManageMaterials))
	{
		materials.GET("", h.Material.List)
		materials.POST("", idempotent, h.Material.Create)
		materials.GET("/low-stock", h.Material.LowStock)
		materials.GET("/:id", h.Material.Get)
		materials.PUT("/:id", h.Material.Update)
		materials.DELETE("/:id", h.Material.Delete)
	}

	equipment := protected.Group("/equipment")
	equipment.Use(middleware.RequirePermission(database.PermManageEquipment))
	{
		equipment.GET("", h.Equipment.List)
		equipment.POST("", idempotent, h.Equipment.Create)
		equipment.GET("/:id", h.Equipment.Get)
		equipment.PUT("/:id", h.Equipment.Update)
		equipment.DELETE("/:id", h.Equipment.Delete)
	}

	addOns := protected.Group("/addons")
	addOns.Use(middleware.RequirePermission(database.PermManageEquipment))
	{
		addOns.GET("", h.Equipment.ListAddOns)
		addOns.POST("", idempotent, h.Equipment.CreateAddOn)
		addOns.GET("/:id", h.Equipment.GetAddOn)
		addOns.PUT("/:id", h.Equipment.UpdateAddOn)
		addOns.DELETE("/:id", h.Equipment.DeleteAddOn)
	}
}

func registerQuoteRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	quotes := protected.Group("/quotes")
	quotes.Use(middleware.RequirePermission(database.PermManageQuotes))
	{
		quotes.GET("", h.Quote.List)
		quotes.POST("", idempotent, h.Quote.Create)
		quotes.POST("/preview", h.Quote.Preview)
		quotes.GET("/:id", h.Quote.Get)
		quotes.PUT("/:id", h.Quote.Update)
		quotes.DELETE("/:id", h.Quote.Delete)
		quotes.POST("/:id/recalculate", h.Quote.Recalculate)
		quotes.PATCH("/:id/status", h.Quote.UpdateStatus)
		quotes.POST("/:id/convert", idempotent, h.Quote.Convert)
		quotes.GET("/:id/pdf", h.Quote.PDF)
	}
}

func registerJobRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	jobs := protected.Group("/jobs")
	jobs.Use(middleware.RequirePermission(database.PermManageJobs))
	{
		jobs.GET("", h.Job.List)
		jobs.POST("", idempotent, h.Job.Create)
		jobs.GET("/export", h.Job.Export)
		jobs.GET("/:id", h.Job.Get)
		jobs.PUT("/:id", h.Job.Update)
		jobs.DELETE("/:id", h.Job.Delete)
		jobs.POST("/:id/recalculate", h.Job.Recalculate)
		jobs.POST("/:id/complete", h.Job.Complete)
		jobs.POST("/:id/cancel", h.Job.Cancel)
		jobs.POST("/:id/invoice", middleware.RequirePermission(database.PermManageInvoices), idempotent, h.Job.GenerateInvoice)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers) {
	invoices := protected.Group("/invoices")
	invoices.Use(middleware.RequirePermission(database.PermManageInvoices))
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/export", h.Invoice.Export)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.POST("/:id/pay", h.Invoice.Pay)
		invoices.POST("/:id/void", h.Invoice.Void)
		invoices.GET("/:id/pdf", h.Invoice.PDF)
		invoices.POST("/:id/email", h.Invoice.Email)
	}
}

func registerPurchaseOrderRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	orders := protected.Group("/purchase-orders")
	orders.Use(middleware.RequirePermission(database.PermManagePurchaseOrders))
	{
		orders.GET("", h.PurchaseOrder.List)
		orders.POST("", idempotent, h.PurchaseOrder.Create)
		orders.GET("/:id", h.PurchaseOrder.Get)
		orders.PUT("/:id", h.PurchaseOrder.Update)
		orders.DELETE("/:id", h.PurchaseOrder.Delete)
		orders.POST("/:id/order", h.PurchaseOrder.MarkOrdered)
		orders.POST("/:id/receive", h.PurchaseOrder.Receive)
		orders.POST("/:id/cancel", h.PurchaseOrder.Cancel)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission(database.PermManageUsers))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}

	protected.GET("/roles", middleware.RequirePermission(database.PermManageUsers), h.User.ListRoles)
	protected.GET("/permissions", middleware.RequirePermission(database.PermManageUsers), h.User.ListPermissions)
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole("super-admin"))
	{
		admin.GET("/tenants", h.Tenant.ListAllTenants)
		admin.POST("/tenants/assign-user", h.Tenant.AssignUserToTenant)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	printerGroup.Use(middleware.RequirePermission(database.PermManageInvoices))
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt", h.Printer.PrintReceipt)
	}
}
