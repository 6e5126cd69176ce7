package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	userID, tenantID := uuid.New(), uuid.New()

	token, err := m.GenerateAccessToken(userID, tenantID, "owner@shop.test", []string{"admin"}, []string{"manage-quotes"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, "shopfloor-api", claims.Issuer)
	assert.Equal(t, []string{"manage-quotes"}, claims.Permissions)
}

func TestJWTManager_RejectsForeignSecretAndExpiry(t *testing.T) {
	m := NewJWTManager("one", time.Minute, time.Hour)
	other := NewJWTManager("two", time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), uuid.Nil, "a@b.c", nil, nil)
	require.NoError(t, err)
	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)

	expired := NewJWTManager("one", -time.Minute, -time.Minute)
	token, err = expired.GenerateAccessToken(uuid.New(), uuid.Nil, "a@b.c", nil, nil)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RefreshToken(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestSlugAndSKU(t *testing.T) {
	assert.Equal(t, "acme-print-shop", Slugify("Acme Print  Shop!"))
	assert.Equal(t, "3MM-ACRYLIC-SHEET", SKU("3mm Acrylic Sheet"))

	tok, err := RandomToken(16)
	require.NoError(t, err)
	assert.Len(t, tok, 32)
}
