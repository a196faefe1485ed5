package services

import (
	"testing"

	"campusgate/internal/config"
	"campusgate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLifecycle(t *testing.T) {
	cfg := setupTestDB(t, 10)
	defer cleanupTestDB(t, cfg)
	cfg.JWT = config.JWTConfig{Secret: "test-secret", ExpiresIn: "24h"}

	authService := NewAuthService(cfg)
	userService := NewUserService(cfg)

	admin, err := authService.CreateUser("admin", "admin123", "admin")
	require.NoError(t, err)

	t.Run("superadmin alias folds into admin", func(t *testing.T) {
		user, err := authService.CreateUser("legacy", "legacy123", "superadmin")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		_, err := authService.CreateUser("stranger", "pass1234", "janitor")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		_, err := authService.CreateUser("admin", "other123", "hr")
		assert.ErrorIs(t, err, ErrUserExists)

		users, err := userService.GetUsers()
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("self-delete is rejected", func(t *testing.T) {
		assert.ErrorIs(t, userService.DeleteUser(admin.ID, admin.ID), ErrSelfDelete)
	})

	t.Run("last admin is protected", func(t *testing.T) {
		legacy, err := userService.GetUsers()
		require.NoError(t, err)

		var legacyID uint
		for _, u := range legacy {
			if u.Username == "legacy" {
				legacyID = u.ID
			}
		}
		require.NotZero(t, legacyID)

		// two admins exist, so one can go
		require.NoError(t, userService.DeleteUser(legacyID, admin.ID))

		hr, err := authService.CreateUser("hr", "hr12345", "hr")
		require.NoError(t, err)
		assert.ErrorIs(t, userService.DeleteUser(admin.ID, hr.ID), ErrLastAdmin)
	})

	t.Run("reset password changes authentication", func(t *testing.T) {
		_, err := authService.Authenticate("admin", "admin123")
		require.NoError(t, err)

		_, err = userService.ResetPassword(admin.ID, "fresh123")
		require.NoError(t, err)

		_, err = authService.Authenticate("admin", "admin123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = authService.Authenticate("admin", "fresh123")
		assert.NoError(t, err)
	})
}

func TestCreateDefaultUsers(t *testing.T) {
	cfg := setupTestDB(t, 10)
	defer cleanupTestDB(t, cfg)
	cfg.Defaults = config.DefaultsConfig{
		Admin: config.DefaultUserConfig{Username: "admin", Password: "admin123"},
		Dean:  config.DefaultUserConfig{Username: "dean", Password: "dean123"},
	}

	authService := NewAuthService(cfg)
	require.NoError(t, authService.CreateDefaultUsers())

	admin, err := authService.Authenticate("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	dean, err := authService.Authenticate("dean", "dean123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDean, dean.Role)

	// second run is a no-op on a populated table
	require.NoError(t, authService.CreateDefaultUsers())
	var count int64
	models.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(2), count)
}
