package database

import (
	"strings"

	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Permission names
const (
	PermViewDashboard        = "view-dashboard"
	PermManageCustomers      = "manage-customers"
	PermManageVendors        = "manage-vendors"
	PermManageMaterials      = "manage-materials"
	PermManageEquipment      = "manage-equipment"
	PermManageQuotes         = "manage-quotes"
	PermManageJobs           = "manage-jobs"
	PermManageInvoices       = "manage-invoices"
	PermManagePurchaseOrders = "manage-purchase-orders"
	PermManageSettings       = "manage-settings"
	PermManageUsers          = "manage-users"
)

// AllPermissions lists every permission seeded into the database
var AllPermissions = []string{
	PermViewDashboard,
	PermManageCustomers,
	PermManageVendors,
	PermManageMaterials,
	PermManageEquipment,
	PermManageQuotes,
	PermManageJobs,
	PermManageInvoices,
	PermManagePurchaseOrders,
	PermManageSettings,
	PermManageUsers,
}

// rolePermissions maps seeded roles to their permissions. super-admin and admin get everything.
var rolePermissions = map[string][]string{
	"staff": {
		PermViewDashboard,
		PermManageCustomers,
		PermManageQuotes,
		PermManageJobs,
	},
	// Shop owners who self-register
	"user": {
		PermViewDashboard,
		PermManageCustomers,
		PermManageVendors,
		PermManageMaterials,
		PermManageEquipment,
		PermManageQuotes,
		PermManageJobs,
		PermManageInvoices,
		PermManagePurchaseOrders,
		PermManageSettings,
	},
}

// SeedDefaultData seeds permissions, roles and, when configured, the super admin user
func SeedDefaultData(db *gorm.DB) error {
	log := zap.L().Named("seed")

	for _, name := range AllPermissions {
		perm := entity.Permission{Name: name, GuardName: "web"}
		if err := db.Where("name = ?", name).FirstOrCreate(&perm).Error; err != nil {
			log.Warn("failed to create permission", zap.String("permission", name), zap.Error(err))
		}
	}

	var allPermissions []entity.Permission
	if err := db.Find(&allPermissions).Error; err != nil {
		return err
	}

	byName := make(map[string]entity.Permission, len(allPermissions))
	for _, p := range allPermissions {
		byName[p.Name] = p
	}

	roles := map[string][]entity.Permission{
		"super-admin": allPermissions,
		"admin":       allPermissions,
	}
	for role, names := range rolePermissions {
		perms := make([]entity.Permission, 0, len(names))
		for _, n := range names {
			if p, ok := byName[n]; ok {
				perms = append(perms, p)
			}
		}
		roles[role] = perms
	}

	for name, perms := range roles {
		var role entity.Role
		if err := db.Where("name = ?", name).First(&role).Error; err == nil {
			continue
		}
		role = entity.Role{Name: name, GuardName: "web", Permissions: perms}
		if err := db.Create(&role).Error; err != nil {
			log.Warn("failed to create role", zap.String("role", name), zap.Error(err))
		}
	}

	seedSuperAdmin(db, log)

	log.Info("default data seeded")
	return nil
}

func seedSuperAdmin(db *gorm.DB, log *zap.Logger) {
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return
	}

	var existing entity.User
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Warn("failed to hash admin password", zap.Error(err))
		return
	}

	var saRole entity.Role
	if err := db.Where("name = ?", "super-admin").First(&saRole).Error; err != nil {
		log.Warn("super-admin role missing", zap.Error(err))
		return
	}

	adminName := viper.GetString("ADMIN_NAME")
	if adminName == "" {
		adminName = "Super Admin"
	}
	firstName, lastName, _ := strings.Cut(adminName, " ")

	admin := entity.User{
		FirstName: firstName,
		LastName:  lastName,
		Username:  adminEmail,
		Email:     adminEmail,
		Password:  string(hashed),
		Roles:     []entity.Role{saRole},
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Warn("failed to create super admin user", zap.Error(err))
		return
	}
	log.Info("super admin user created", zap.String("email", adminEmail))
}
