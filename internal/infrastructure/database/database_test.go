package database

import (
	"testing"

	"github.com/sangkips/shopfloor-api/internal/config"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	assert.True(t, db.Migrator().HasTable(&entity.Invoice{}))
	assert.True(t, db.Migrator().HasTable(&entity.DocumentSequence{}))
	assert.True(t, db.Migrator().HasTable("model_has_roles"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, logger.Silent)
	assert.Error(t, err)
}

func TestSeedDefaultData_Idempotent(t *testing.T) {
	db, err := NewSQLiteDB(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, SeedDefaultData(db))
	require.NoError(t, SeedDefaultData(db))

	var permCount int64
	db.Model(&entity.Permission{}).Count(&permCount)
	assert.Equal(t, int64(len(AllPermissions)), permCount)

	var userRole entity.Role
	require.NoError(t, db.Preload("Permissions").Where("name = ?", "user").First(&userRole).Error)
	assert.Len(t, userRole.Permissions, len(rolePermissions["user"]))

	var roleCount int64
	db.Model(&entity.Role{}).Count(&roleCount)
	assert.Equal(t, int64(4), roleCount)
}
