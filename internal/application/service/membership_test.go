package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	infraRepo "github.com/sangkips/shopfloor-api/internal/infrastructure/repository"
	"github.com/sangkips/shopfloor-api/pkg/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeGoogle struct {
	info *oauth.GoogleUserInfo
}

func (g *fakeGoogle) IsConfigured() bool { return true }
func (g *fakeGoogle) GetAuthURL(state string) string { return "https://accounts.test/auth?state=" + state }

func (g *fakeGoogle) ExchangeCode(_ context.Context, code string) (*oauth2.Token, error) {
	if code != "good-code" {
		return nil, errors.New("bad code")
	}
	return &oauth2.Token{AccessToken: "google-token"}, nil
}

func (g *fakeGoogle) GetUserInfo(context.Context, *oauth2.Token) (*oauth.GoogleUserInfo, error) {
	return g.info, nil
}

func TestAuth_GoogleLoginProvisionsOnce(t *testing.T) {
	e := newEnv(t)
	roleRepo := infraRepo.NewRoleRepository(e.db)
	require.NoError(t, roleRepo.Create(context.Background(), &entity.Role{Name: "user", GuardName: "web"}))
	google := &fakeGoogle{info: &oauth.GoogleUserInfo{
		ID:            "g-123",
		Email:         "Sam@Example.com",
		VerifiedEmail: true,
		GivenName:     "Sam",
		FamilyName:    "Ortiz",
	}}
	auth := NewAuthService(
		infraRepo.NewUserRepository(e.db),
		roleRepo,
		infraRepo.NewTenantRepository(e.db),
		infraRepo.NewPasswordResetTokenRepository(e.db),
		e.settings,
		newTestJWT(),
		e.mailer,
		google,
	)
	ctx := context.Background()

	_, err := auth.GoogleLogin(ctx, "bad-code")
	requireCode(t, err, http.StatusBadRequest)

	first, err := auth.GoogleLogin(ctx, "good-code")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.TenantID)

	second, err := auth.GoogleLogin(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, first.TenantID, second.TenantID, "a returning user keeps their shop")

	user, err := infraRepo.NewUserRepository(e.db).GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, user.ProviderID)
	assert.Equal(t, "g-123", *user.ProviderID)

	google.info = &oauth.GoogleUserInfo{ID: "g-9", Email: "new@example.com"}
	_, err = auth.GoogleLogin(ctx, "good-code")
	requireCode(t, err, http.StatusForbidden)
}

func TestAuth_GoogleLoginNotConfigured(t *testing.T) {
	e := newEnv(t)
	_, err := e.authService(t).GoogleLogin(context.Background(), "code")
	requireCode(t, err, http.StatusServiceUnavailable)
}

func TestTenant_MemberManagement(t *testing.T) {
	e := newEnv(t)
	tenantRepo := infraRepo.NewTenantRepository(e.db)
	svc := NewTenantService(tenantRepo)
	ctx := context.Background()

	owner, staff := uuid.New(), uuid.New()
	shop := &entity.Tenant{Name: "Corner Signs", Slug: "corner-signs", OwnerID: owner}
	require.NoError(t, tenantRepo.Create(ctx, shop))
	require.NoError(t, tenantRepo.AddMember(ctx, &entity.TenantMembership{TenantID: shop.ID, UserID: owner, Role: RoleOwner}))

	require.NoError(t, svc.RequireManager(ctx, shop.ID, owner))
	requireCode(t, svc.RequireManager(ctx, shop.ID, staff), http.StatusForbidden)

	requireCode(t, svc.InviteMember(ctx, &InviteMemberInput{TenantID: shop.ID, UserID: staff, Role: RoleOwner}), http.StatusUnprocessableEntity)
	require.NoError(t, svc.InviteMember(ctx, &InviteMemberInput{TenantID: shop.ID, UserID: staff, Role: RoleMember}))
	requireCode(t, svc.InviteMember(ctx, &InviteMemberInput{TenantID: shop.ID, UserID: staff, Role: RoleMember}), http.StatusConflict)
	requireCode(t, svc.RequireManager(ctx, shop.ID, staff), http.StatusForbidden)

	require.NoError(t, svc.UpdateMemberRole(ctx, shop.ID, staff, RoleAdmin))
	require.NoError(t, svc.RequireManager(ctx, shop.ID, staff))

	requireCode(t, svc.RemoveMember(ctx, shop.ID, owner), http.StatusUnprocessableEntity)
	require.NoError(t, svc.RemoveMember(ctx, shop.ID, staff))

	isMember, err := tenantRepo.IsMember(ctx, shop.ID, staff)
	require.NoError(t, err)
	assert.False(t, isMember)

	tenants, err := svc.GetUserTenants(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, "Corner Signs", tenants[0].Name)
}

func TestUser_UpdateRoles(t *testing.T) {
	e := newEnv(t)
	userRepo := infraRepo.NewUserRepository(e.db)
	roleRepo := infraRepo.NewRoleRepository(e.db)
	svc := NewUserService(userRepo, roleRepo, infraRepo.NewPermissionRepository(e.db))
	ctx := context.Background()

	admin := &entity.Role{Name: "admin", GuardName: "web"}
	staff := &entity.Role{Name: "staff", GuardName: "web"}
	require.NoError(t, roleRepo.Create(ctx, admin))
	require.NoError(t, roleRepo.Create(ctx, staff))

	user := &entity.User{FirstName: "Lee", LastName: "Park", Username: "lpark", Email: "lee@example.com"}
	require.NoError(t, userRepo.Create(ctx, user))

	got, err := svc.UpdateUserRoles(ctx, &UpdateUserRolesInput{UserID: user.ID, RoleIDs: []uint{admin.ID, staff.ID, 9999}})
	require.NoError(t, err)
	assert.Len(t, got.Roles, 2, "unknown role IDs are skipped")

	got, err = svc.UpdateUserRoles(ctx, &UpdateUserRolesInput{UserID: user.ID, RoleIDs: []uint{staff.ID}})
	require.NoError(t, err)
	require.Len(t, got.Roles, 1)
	assert.Equal(t, "staff", got.Roles[0].Name)

	_, err = svc.UpdateUserRoles(ctx, &UpdateUserRolesInput{UserID: uuid.New()})
	requireCode(t, err, http.StatusNotFound)
	_, err = svc.GetUser(ctx, uuid.New())
	requireCode(t, err, http.StatusNotFound)
}
