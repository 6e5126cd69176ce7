package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
	"github.com/sangkips/shopfloor-api/pkg/logger"
	"github.com/sangkips/shopfloor-api/pkg/oauth"
	"github.com/sangkips/shopfloor-api/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// GoogleProvider is the subset of the Google OAuth client used for sign-in
type GoogleProvider interface {
	IsConfigured() bool
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*oauth.GoogleUserInfo, error)
}

const (
	defaultRoleName    = "user"
	passwordResetTTL   = time.Hour
	passwordResetBytes = 32
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo          repository.UserRepository
	roleRepo          repository.RoleRepository
	tenantRepo        repository.TenantRepository
	passwordResetRepo repository.PasswordResetTokenRepository
	settings          *SettingsService
	jwtManager        *utils.JWTManager
	mailer            Mailer
	google            GoogleProvider
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tenantRepo repository.TenantRepository,
	passwordResetRepo repository.PasswordResetTokenRepository,
	settings *SettingsService,
	jwtManager *utils.JWTManager,
	mailer Mailer,
	google GoogleProvider,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		roleRepo:          roleRepo,
		tenantRepo:        tenantRepo,
		passwordResetRepo: passwordResetRepo,
		settings:          settings,
		jwtManager:        jwtManager,
		mailer:            mailer,
		google:            google,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	TenantID     uuid.UUID
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID)
}

// issueTokens loads the user's roles and primary tenant and signs a token pair
func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID) (*LoginOutput, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	tenantID, err := s.primaryTenant(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, role.Name)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, tenantID, user.Email, roles, user.GetPermissions())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		TenantID:     tenantID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// primaryTenant returns the user's oldest membership, or uuid.Nil when there is none
func (s *AuthService) primaryTenant(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	tenants, err := s.tenantRepo.GetUserTenants(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if len(tenants) == 0 {
		return uuid.Nil, nil
	}
	return tenants[0].ID, nil
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	ShopName  string
}

// Register creates a new user account together with the shop they own
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	email := normalizeEmail(input.Email)
	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Username:  email,
		Email:     email,
		Password:  hashedPassword,
		Provider:  "local",
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if _, err := s.provisionShop(ctx, user, input.ShopName); err != nil {
		return nil, err
	}
	return user, nil
}

// provisionShop creates the user's tenant, owner membership, default role and shop settings
func (s *AuthService) provisionShop(ctx context.Context, user *entity.User, shopName string) (*entity.Tenant, error) {
	log := logger.FromContext(ctx)

	name := strings.TrimSpace(shopName)
	if name == "" {
		name = user.FullName() + "'s shop"
	}
	slug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	tenant := &entity.Tenant{
		Name:     name,
		Slug:     slug,
		OwnerID:  user.ID,
		Settings: entity.DefaultTenantSettings(),
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.AddMember(ctx, &entity.TenantMembership{
		TenantID: tenant.ID,
		UserID:   user.ID,
		Role:     RoleOwner,
	}); err != nil {
		return nil, err
	}

	if err := s.settings.Provision(ctx, tenant.ID, name, user.Email); err != nil {
		log.Warn("failed to provision shop settings", zap.Error(err))
	}

	defaultRole, err := s.roleRepo.GetByName(ctx, defaultRoleName)
	if err != nil {
		log.Warn("failed to load default role", zap.Error(err))
		return tenant, nil
	}
	if defaultRole != nil {
		if err := s.userRepo.AssignRole(ctx, user.ID, defaultRole.ID); err != nil {
			log.Warn("failed to assign default role", zap.Error(err))
		}
	}

	log.Info("shop provisioned", zap.String("tenant_id", tenant.ID.String()), zap.String("slug", slug))
	return tenant, nil
}

func (s *AuthService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "shop"
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.tenantRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issueTokens(ctx, userID)
}

// GoogleAuthURL returns the consent URL for Google sign-in
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return "", apperror.NewAppError(apperror.ErrNotConfigured.Code, "Google sign-in is not configured")
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleLogin completes Google sign-in, creating the account and shop on first use
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return nil, apperror.NewAppError(apperror.ErrNotConfigured.Code, "Google sign-in is not configured")
	}

	token, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid authorization code")
	}
	info, err := s.google.GetUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if info.Email == "" || !info.VerifiedEmail {
		return nil, apperror.NewForbiddenError("Google account email is not verified")
	}

	email := normalizeEmail(info.Email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		now := time.Now()
		user = &entity.User{
			FirstName:       info.GivenName,
			LastName:        info.FamilyName,
			Username:        email,
			Email:           email,
			Provider:        "google",
			ProviderID:      &info.ID,
			EmailVerifiedAt: &now,
		}
		if user.FirstName == "" {
			user.FirstName = info.Name
		}
		if info.Picture != "" {
			user.Photo = &info.Picture
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		if _, err := s.provisionShop(ctx, user, ""); err != nil {
			return nil, err
		}
	} else if user.ProviderID == nil {
		user.ProviderID = &info.ID
		if user.Photo == nil && info.Picture != "" {
			user.Photo = &info.Picture
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.issueTokens(ctx, user.ID)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	if user.Password != "" && !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Username  string
	Photo     *string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	// Check if username is taken by another user
	if input.Username != "" && input.Username != user.Username {
		existingUser, err := s.userRepo.GetByUsername(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if existingUser != nil && existingUser.ID != user.ID {
			return nil, apperror.NewConflictError("Username already taken")
		}
		user.Username = input.Username
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ForgotPasswordInput represents the forgot password input
type ForgotPasswordInput struct {
	Email string
}

// ForgotPassword initiates the password reset process. Unknown addresses
// succeed silently so callers can't probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, input *ForgotPasswordInput) error {
	log := logger.FromContext(ctx)
	email := normalizeEmail(input.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Warn("forgot password lookup failed", zap.Error(err))
		return nil
	}
	if user == nil {
		return nil
	}

	if err := s.passwordResetRepo.DeleteByEmail(ctx, email); err != nil {
		log.Warn("failed to clear old reset tokens", zap.Error(err))
	}

	token, err := utils.RandomToken(passwordResetBytes)
	if err != nil {
		return err
	}

	resetToken := &entity.PasswordResetToken{
		Email:     email,
		Token:     token,
		ExpiresAt: time.Now().Add(passwordResetTTL),
	}
	if err := s.passwordResetRepo.Create(ctx, resetToken); err != nil {
		return err
	}

	if s.mailer == nil || !s.mailer.IsConfigured() {
		log.Warn("password reset requested but email is not configured")
		return nil
	}
	return s.mailer.SendPasswordResetEmail(ctx, email, token)
}

// ResetPasswordInput represents the reset password input
type ResetPasswordInput struct {
	Email       string
	Token       string
	NewPassword string
}

var errInvalidResetToken = apperror.NewBadRequestError("Invalid or expired reset token")

// ResetPassword resets the user's password using a valid token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	email := normalizeEmail(input.Email)

	resetToken, err := s.passwordResetRepo.GetByToken(ctx, input.Token)
	if err != nil {
		return err
	}
	if resetToken == nil || resetToken.Email != email || !resetToken.IsValid() {
		return errInvalidResetToken
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return errInvalidResetToken
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	if err := s.passwordResetRepo.MarkAsUsed(ctx, input.Token); err != nil {
		log.Warn("failed to mark reset token used", zap.Error(err))
	}
	if err := s.passwordResetRepo.DeleteByEmail(ctx, email); err != nil {
		log.Warn("failed to clear reset tokens", zap.Error(err))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
