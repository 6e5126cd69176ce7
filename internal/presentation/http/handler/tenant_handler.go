package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sangkips/shopfloor-api/internal/application/service"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopfloor-api/internal/presentation/http/middleware"
)

// TenantHandler handles tenant-related HTTP requests
type TenantHandler struct {
	tenantService   *service.TenantService
	settingsService *service.SettingsService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService, settingsService *service.SettingsService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService, settingsService: settingsService}
}

// currentTenant returns the resolved tenant or answers 400
func currentTenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		response.BadRequest(c, "No active tenant")
		return uuid.Nil, false
	}
	return tenantID, true
}

// requireManager answers 403 unless the caller owns or administers the tenant.
// Super-admins always pass.
func (h *TenantHandler) requireManager(c *gin.Context, tenantID, userID uuid.UUID) bool {
	if IsSuperAdmin(c) {
		return true
	}
	if err := h.tenantService.RequireManager(c.Request.Context(), tenantID, userID); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}

// Create opens another shop owned by the caller
func (h *TenantHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateTenantRequest
	if !bindJSON(c, &req) {
		return
	}
	tenantSlug := slug.Make(req.Slug)
	if tenantSlug == "" {
		tenantSlug = slug.Make(req.Name)
	}

	ctx := c.Request.Context()
	tenant, err := h.tenantService.CreateTenant(ctx, &service.CreateTenantInput{
		Name:    req.Name,
		Slug:    tenantSlug,
		OwnerID: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.settingsService.Provision(ctx, tenant.ID, tenant.Name, GetUserEmail(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Tenant created successfully", gin.H{"tenant": tenant})
}

// GetCurrentTenant returns the current user's active tenant
func (h *TenantHandler) GetCurrentTenant(c *gin.Context) {
	tenantID, ok := currentTenant(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant retrieved successfully", gin.H{"tenant": tenant})
}

// ListTenants returns the tenants the caller belongs to
func (h *TenantHandler) ListTenants(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	tenants, err := h.tenantService.GetUserTenants(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenants retrieved successfully", gin.H{"tenants": tenants})
}

// UpdateTenant updates the current tenant's name and branding
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tenantID, ok := currentTenant(c)
	if !ok || !h.requireManager(c, tenantID, userID) {
		return
	}

	var req request.UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), &service.UpdateTenantInput{
		ID:       tenantID,
		Name:     req.Name,
		Settings: req.Settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant updated successfully", gin.H{"tenant": tenant})
}

// ListMembers returns all members of the current tenant
func (h *TenantHandler) ListMembers(c *gin.Context) {
	tenantID, ok := currentTenant(c)
	if !ok {
		return
	}

	members, err := h.tenantService.GetTenantMembers(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Members retrieved successfully", gin.H{"members": members})
}

// InviteMember adds a user to the current tenant
func (h *TenantHandler) InviteMember(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tenantID, ok := currentTenant(c)
	if !ok || !h.requireManager(c, tenantID, userID) {
		return
	}

	var req request.InviteMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.tenantService.InviteMember(c.Request.Context(), &service.InviteMemberInput{
		TenantID: tenantID,
		UserID:   req.UserID,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Member invited successfully", nil)
}

// RemoveMember removes a user from the current tenant
func (h *TenantHandler) RemoveMember(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tenantID, ok := currentTenant(c)
	if !ok || !h.requireManager(c, tenantID, userID) {
		return
	}
	memberID, ok := parseID(c, "user_id", "user")
	if !ok {
		return
	}
	if memberID == userID {
		response.BadRequest(c, "Cannot remove yourself from the tenant")
		return
	}

	if err := h.tenantService.RemoveMember(c.Request.Context(), tenantID, memberID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member removed successfully", nil)
}

// UpdateMemberRole updates a member's role in the current tenant
func (h *TenantHandler) UpdateMemberRole(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tenantID, ok := currentTenant(c)
	if !ok || !h.requireManager(c, tenantID, userID) {
		return
	}
	memberID, ok := parseID(c, "user_id", "user")
	if !ok {
		return
	}

	var req request.UpdateMemberRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tenantService.UpdateMemberRole(c.Request.Context(), tenantID, memberID, req.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member role updated successfully", nil)
}

// ListAllTenants returns a page of every tenant (super admin only)
func (h *TenantHandler) ListAllTenants(c *gin.Context) {
	var q request.ListQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.tenantService.ListAllTenants(c.Request.Context(), pageParams(&q))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "All tenants retrieved successfully", result)
}

// AssignUserToTenant assigns a user to a tenant (super admin only)
func (h *TenantHandler) AssignUserToTenant(c *gin.Context) {
	var req request.AssignUserToTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.tenantService.AssignUserToTenant(c.Request.Context(), &service.AssignUserToTenantInput{
		TenantID: req.TenantID,
		UserID:   req.UserID,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User assigned to tenant successfully", nil)
}
