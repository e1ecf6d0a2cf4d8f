package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio_backend/internal/auth"
	"folio_backend/internal/config"
	"folio_backend/internal/models"
)

func setupAuthConfig(t *testing.T, secret string) {
	t.Helper()
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = secret
	config.AppConfig.JWT.TTL = 60
}

func TestGenerateAndParseToken(t *testing.T) {
	setupAuthConfig(t, "test-secret")
	userID := uuid.NewString()

	token, err := auth.GenerateToken(userID, models.UserRoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, models.UserRoleAdmin, claims.Role)
	assert.Equal(t, userID, claims.Subject)
}

func TestParseToken_Garbage(t *testing.T) {
	setupAuthConfig(t, "test-secret")

	_, err := auth.ParseToken("definitely.not.a-token")
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	setupAuthConfig(t, "first-secret")
	token, err := auth.GenerateToken(uuid.NewString(), models.UserRoleUser)
	require.NoError(t, err)

	setupAuthConfig(t, "another-secret")
	_, err = auth.ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, auth.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, auth.CheckPasswordHash("wrong password", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, auth.ValidatePassword("short"))
	assert.NoError(t, auth.ValidatePassword("long enough password"))
}

func TestValidateRole(t *testing.T) {
	assert.NoError(t, auth.ValidateRole(models.UserRoleUser))
	assert.NoError(t, auth.ValidateRole(models.UserRoleAdmin))
	assert.Error(t, auth.ValidateRole(models.UserRole("superuser")))
}
