package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Email     EmailConfig
	OAuth     OAuthConfig
	Stripe    StripeConfig
	Printer   PrinterConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	URL         string
	FrontendURL string
	LogLevel    string
}

type DatabaseConfig struct {
	Driver           string // postgres or sqlite
	SQLitePath       string
	Host             string
	Port             string
	Name             string
	User             string
	Password         string
	SSLMode          string
	Timezone         string
	MaxOpenConns     int
	MaxIdleConns     int
	RunSQLMigrations bool
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type RedisConfig struct {
	URL          string
	DashboardTTL time.Duration
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendSuccessURL string
	FrontendErrorURL   string
}

type StripeConfig struct {
	WebhookSecret string
	Tolerance     time.Duration
}

type PrinterConfig struct {
	Type      string // usb, network, none
	USBPath   string
	Address   string
	CharWidth int
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from .env (when present) and the environment
func Load() *Config {
	_ = godotenv.Load()
	viper.AutomaticEnv()

	viper.SetDefault("APP_NAME", "shopfloor-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_URL", "http://localhost:8080")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_SQLITE_PATH", "shopfloor.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "shopfloor")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_RUN_SQL_MIGRATIONS", true)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 30)
	viper.SetDefault("REDIS_DASHBOARD_TTL_SECONDS", 60)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "Shopfloor")
	viper.SetDefault("STRIPE_WEBHOOK_TOLERANCE_SECONDS", 300)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 48)
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_PATH", "/metrics")

	frontendURL := viper.GetString("FRONTEND_URL")

	return &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Env:         viper.GetString("APP_ENV"),
			Port:        viper.GetString("APP_PORT"),
			URL:         viper.GetString("APP_URL"),
			FrontendURL: frontendURL,
			LogLevel:    viper.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Driver:           viper.GetString("DB_DRIVER"),
			SQLitePath:       viper.GetString("DB_SQLITE_PATH"),
			Host:             viper.GetString("DB_HOST"),
			Port:             viper.GetString("DB_PORT"),
			Name:             viper.GetString("DB_NAME"),
			User:             viper.GetString("DB_USER"),
			Password:         viper.GetString("DB_PASSWORD"),
			SSLMode:          viper.GetString("DB_SSL_MODE"),
			Timezone:         viper.GetString("DB_TIMEZONE"),
			MaxOpenConns:     viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     viper.GetInt("DB_MAX_IDLE_CONNS"),
			RunSQLMigrations: viper.GetBool("DB_RUN_SQL_MIGRATIONS"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(viper.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(viper.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
		Redis: RedisConfig{
			URL:          viper.GetString("REDIS_URL"),
			DashboardTTL: time.Duration(viper.GetInt("REDIS_DASHBOARD_TTL_SECONDS")) * time.Second,
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
			FrontendSuccessURL: frontendURL + "/auth/callback",
			FrontendErrorURL:   frontendURL + "/login",
		},
		Stripe: StripeConfig{
			WebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
			Tolerance:     time.Duration(viper.GetInt("STRIPE_WEBHOOK_TOLERANCE_SECONDS")) * time.Second,
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
		},
	}
}

// Validate rejects settings that are unsafe outside development
func (c *Config) Validate() error {
	if c.App.Env == "production" {
		if c.JWT.Secret == "" || c.JWT.Secret == "change-this-secret-in-production" {
			return errors.New("JWT_SECRET must be set in production")
		}
		if c.Stripe.WebhookSecret == "" {
			return errors.New("STRIPE_WEBHOOK_SECRET must be set in production")
		}
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
