package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/config"
	"github.com/sangkips/shopfloor-api/internal/infrastructure/cache"
	"github.com/sangkips/shopfloor-api/internal/infrastructure/database"
	"github.com/sangkips/shopfloor-api/internal/infrastructure/repository"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/handler"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/middleware"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/routes"
	"github.com/sangkips/shopfloor-api/pkg/email"
	"github.com/sangkips/shopfloor-api/pkg/logger"
	"github.com/sangkips/shopfloor-api/pkg/oauth"
	"github.com/sangkips/shopfloor-api/pkg/printer"
	"github.com/sangkips/shopfloor-api/pkg/stripe"
	"github.com/sangkips/shopfloor-api/pkg/telemetry"
	"github.com/sangkips/shopfloor-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Open(&cfg.Database, database.GormLogLevel(cfg.App.Env))
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("run auto-migrations: %w", err)
	}
	if cfg.Database.RunSQLMigrations && cfg.Database.Driver != "sqlite" {
		if err := database.RunSQLMigrations(db); err != nil {
			return fmt.Errorf("run SQL migrations: %w", err)
		}
	}
	if err := database.SeedDefaultData(db); err != nil {
		log.Warn("failed to seed default data", zap.Error(err))
	}

	// Redis is optional; without it limits and dashboard caching stay in process
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn("redis unavailable, continuing without it", zap.Error(err))
		redisClient = nil
	}
	var (
		tokenBucket    *cache.TokenBucket
		dashboardCache service.DashboardCache
	)
	if redisClient != nil {
		defer redisClient.Close()
		tokenBucket = cache.NewTokenBucket(redisClient)
		dashboardCache = cache.NewDashboardCache(redisClient, cfg.Redis.DashboardTTL)
	}

	metrics := telemetry.NewMetrics()

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	settingsRepo := repository.NewShopSettingsRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	addOnRepo := repository.NewAddOnRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	jobRepo := repository.NewJobRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	purchaseOrderRepo := repository.NewPurchaseOrderRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	billingEventRepo := repository.NewBillingEventRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.App.FrontendURL,
		AppName:      cfg.App.Name,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo)
	authService := service.NewAuthService(userRepo, roleRepo, tenantRepo, passwordResetRepo, settingsService, jwtManager, emailService, googleOAuthService)
	tenantService := service.NewTenantService(tenantRepo)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)
	numberer := service.NewDocumentNumberer(sequenceRepo, settingsService)
	pricer := service.NewPricer(equipmentRepo, materialRepo, addOnRepo)
	notificationService := service.NewNotificationService(notificationRepo, tenantRepo, userRepo, settingsService, emailService)
	customerService := service.NewCustomerService(customerRepo, vendorRepo)
	materialService := service.NewMaterialService(materialRepo, vendorRepo)
	equipmentService := service.NewEquipmentService(equipmentRepo, addOnRepo)
	quoteService := service.NewQuoteService(quoteRepo, customerRepo, pricer, numberer, settingsService, metrics)
	jobService := service.NewJobService(jobRepo, customerRepo, pricer, numberer, settingsService, notificationService, metrics)
	invoiceService := service.NewInvoiceService(invoiceRepo, jobRepo, numberer, settingsService, notificationService, emailService, dashboardCache, metrics)
	purchaseOrderService := service.NewPurchaseOrderService(purchaseOrderRepo, vendorRepo, materialRepo, numberer, settingsService, notificationService, metrics)
	billingService := service.NewBillingService(stripe.NewWebhook(cfg.Stripe.WebhookSecret, cfg.Stripe.Tolerance), billingEventRepo, tenantRepo, notificationService, metrics)
	dashboardService := service.NewDashboardService(dashboardRepo, quoteRepo, jobRepo, materialRepo, dashboardCache)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warn("failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()
	printerService := service.NewPrinterService(thermalPrinter, invoiceService, settingsService, cfg.Printer.Type, cfg.Printer.CharWidth)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.OAuthRedirects{
			SuccessURL: googleOAuthService.GetFrontendSuccessURL(),
			ErrorURL:   googleOAuthService.GetFrontendErrorURL(),
		}),
		Tenant:        handler.NewTenantHandler(tenantService, settingsService),
		User:          handler.NewUserHandler(userService),
		Customer:      handler.NewCustomerHandler(customerService),
		Vendor:        handler.NewVendorHandler(customerService),
		Material:      handler.NewMaterialHandler(materialService),
		Equipment:     handler.NewEquipmentHandler(equipmentService),
		Quote:         handler.NewQuoteHandler(quoteService),
		Job:           handler.NewJobHandler(jobService, invoiceService),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService),
		Settings:      handler.NewSettingsHandler(settingsService),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		Notification:  handler.NewNotificationHandler(notificationService),
		Billing:       handler.NewBillingHandler(billingService),
		Printer:       handler.NewPrinterHandler(printerService),
	}

	// Per-tenant rate limiter
	rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
		Bucket:            tokenBucket,
	})
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		TenantRepo:      tenantRepo,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Metrics:         metrics,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.Bool("redis", redisClient != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
