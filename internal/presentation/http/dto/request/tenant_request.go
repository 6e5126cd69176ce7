package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
)

// CreateTenantRequest represents a request to open another shop
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
	Slug string `json:"slug" binding:"omitempty,min=2,max=100"`
}

// UpdateTenantRequest represents a tenant update
type UpdateTenantRequest struct {
	Name     string                 `json:"name" binding:"omitempty,min=2,max=255"`
	Settings *entity.TenantSettings `json:"settings"`
}

// InviteMemberRequest adds an existing user to the current tenant
type InviteMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role" binding:"required,oneof=admin member"`
}

// UpdateMemberRoleRequest changes a member's tenant role
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}

// AssignUserToTenantRequest is the super-admin request to place a user in a tenant
type AssignUserToTenantRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	Role     string    `json:"role" binding:"omitempty,oneof=owner admin member"`
}

// UpdateUserRequest represents an admin edit of a user
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=255"`
	LastName  *string `json:"last_name" binding:"omitempty,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// UpdateUserRolesRequest replaces the roles of a user
type UpdateUserRolesRequest struct {
	RoleIDs []uint `json:"role_ids" binding:"required"`
}
