package database

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		// Identity
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.PasswordResetToken{},
		&entity.Tenant{},
		&entity.TenantMembership{},

		// Contacts and catalog
		&entity.Customer{},
		&entity.Vendor{},
		&entity.Material{},
		&entity.Equipment{},
		&entity.AddOn{},

		// Documents
		&entity.DocumentSequence{},
		&entity.Quote{},
		&entity.Job{},
		&entity.Invoice{},
		&entity.PurchaseOrder{},
		&entity.PurchaseOrderItem{},

		// System
		&entity.ShopSettings{},
		&entity.Notification{},
		&entity.BillingEvent{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	zap.L().Info("database auto-migration completed")
	return nil
}

// RunSQLMigrations applies the embedded PostgreSQL migrations that AutoMigrate
// cannot express (partial unique indexes, trigram search indexes).
func RunSQLMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB

	version, dirty, _ := migrator.Version()
	zap.L().Info("sql migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
