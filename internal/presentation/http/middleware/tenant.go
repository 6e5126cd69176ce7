package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	infraRepo "github.com/sangkips/shopfloor-api/internal/infrastructure/repository"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopfloor-api/pkg/logger"
	"go.uber.org/zap"
)

// TenantHeader lets a member of several shops pick the active one
const TenantHeader = "X-Tenant-ID"

// ExtractTenantFromHost extracts tenant slug from subdomain
// e.g., "acme.shopfloor.app" -> "acme"
func ExtractTenantFromHost(host string) (string, error) {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", errors.New("invalid subdomain")
	}
	return parts[0], nil
}

// TenantMiddleware resolves the active tenant and scopes the request to it.
// The X-Tenant-ID header wins, then the subdomain, then the tenant in the
// access token. The caller must be a member unless they are a super-admin;
// a super-admin without any tenant sees every tenant's rows.
func TenantMiddleware(tenantRepo repository.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		tenant, err := resolveTenant(c, tenantRepo)
		if err != nil {
			logger.FromContext(ctx).Error("resolve tenant", zap.Error(err))
			response.InternalServerError(c, "Failed to resolve tenant")
			c.Abort()
			return
		}

		superAdmin := hasRole(c, "super-admin")
		if tenant == nil {
			if superAdmin {
				c.Request = c.Request.WithContext(infraRepo.WithSkipTenantScope(ctx, true))
				c.Next()
				return
			}
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}

		if !superAdmin {
			userID, _ := c.Get("user_id")
			uid, _ := userID.(uuid.UUID)
			isMember, err := tenantRepo.IsMember(ctx, tenant.ID, uid)
			if err != nil {
				logger.FromContext(ctx).Error("check tenant membership", zap.Error(err))
				response.InternalServerError(c, "Failed to resolve tenant")
				c.Abort()
				return
			}
			if !isMember {
				response.Forbidden(c, "Access denied to this tenant")
				c.Abort()
				return
			}
		}

		c.Set("tenant_id", tenant.ID)
		c.Set("tenant", tenant)

		ctx = infraRepo.WithTenant(ctx, tenant.ID)
		ctx = logger.WithTenant(ctx, tenant.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func resolveTenant(c *gin.Context, tenantRepo repository.TenantRepository) (*entity.Tenant, error) {
	ctx := c.Request.Context()

	if raw := strings.TrimSpace(c.GetHeader(TenantHeader)); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil
		}
		return tenantRepo.GetByID(ctx, id)
	}

	if slug, err := ExtractTenantFromHost(c.Request.Host); err == nil {
		tenant, err := tenantRepo.GetBySlug(ctx, slug)
		if err != nil || tenant != nil {
			return tenant, err
		}
	}

	if v, ok := c.Get("token_tenant_id"); ok {
		if id, ok := v.(uuid.UUID); ok && id != uuid.Nil {
			return tenantRepo.GetByID(ctx, id)
		}
	}
	return nil, nil
}

func hasRole(c *gin.Context, role string) bool {
	v, ok := c.Get("user_roles")
	if !ok {
		return false
	}
	roles, _ := v.([]string)
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequireTenant ensures a concrete tenant was resolved, even for super-admins
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetTenantID(c) == uuid.Nil {
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := tenantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
