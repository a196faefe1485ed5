package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"campusgate/internal/models"
	"campusgate/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRoutes(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	authService := services.NewAuthService(cfg)
	adminUser := createTestUser(t, authService, "admin", "admin123", "admin")
	hrUser := createTestUser(t, authService, "hr", "hr12345", "hr")

	router := setupTestRouter(cfg)
	adminToken := createTestToken(t, cfg, authService, adminUser)
	hrToken := createTestToken(t, cfg, authService, hrUser)

	t.Run("GET /api/users - Success with admin", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/users", adminToken, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var response []models.User
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Len(t, response, 2)
	})

	t.Run("GET /api/users - Forbidden for non-admin", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/users", hrToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST /api/users - Success", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/users", adminToken, map[string]interface{}{
			"username": "gatekeeper",
			"password": "gate1234",
			"role":     "security",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var response models.User
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "security", response.Role)
		assert.Empty(t, response.PasswordHash)
	})

	t.Run("POST /api/users - Legacy superadmin role maps to admin", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/users", adminToken, map[string]interface{}{
			"username": "oldadmin",
			"password": "old12345",
			"role":     "superadmin",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var response models.User
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "admin", response.Role)
	})

	t.Run("POST /api/users - Conflict on duplicate username", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/users", adminToken, map[string]interface{}{
			"username": "gatekeeper",
			"password": "gate1234",
			"role":     "security",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("POST /api/users - Bad Request on unknown role", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/users", adminToken, map[string]interface{}{
			"username": "stranger",
			"password": "pass1234",
			"role":     "janitor",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST /api/users/:id/reset-password - Success", func(t *testing.T) {
		w := doJSON(router, "POST", fmt.Sprintf("/api/users/%d/reset-password", hrUser.ID), adminToken, map[string]interface{}{
			"newPassword": "newpass1",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var updated models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, hrUser.ID, updated.ID)

		// old password no longer works, new one does
		w = doJSON(router, "POST", "/api/auth/login", "", map[string]interface{}{
			"username": "hr", "password": "hr12345",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doJSON(router, "POST", "/api/auth/login", "", map[string]interface{}{
			"username": "hr", "password": "newpass1",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST /api/users/:id/reset-password - Not Found", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/users/99999/reset-password", adminToken, map[string]interface{}{
			"newPassword": "whatever1",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DELETE /api/users/:id - Self-delete rejected", func(t *testing.T) {
		w := doJSON(router, "DELETE", fmt.Sprintf("/api/users/%d", adminUser.ID), adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DELETE /api/users/:id - Success", func(t *testing.T) {
		victim := createTestUser(t, authService, "shortlived", "bye12345", "security")

		w := doJSON(router, "DELETE", fmt.Sprintf("/api/users/%d", victim.ID), adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		userService := services.NewUserService(cfg)
		_, err := userService.GetUser(victim.ID)
		require.Error(t, err)
	})

	t.Run("DELETE /api/users/:id - Not Found", func(t *testing.T) {
		w := doJSON(router, "DELETE", "/api/users/99999", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Audit trail is admin-only and captures actions", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/logs", hrToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(router, "GET", "/api/logs", adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var logs []models.AuditLog
		err := json.Unmarshal(w.Body.Bytes(), &logs)
		require.NoError(t, err)
		require.NotEmpty(t, logs)

		actions := make(map[string]bool)
		for _, entry := range logs {
			actions[entry.Action] = true
		}
		assert.True(t, actions["user_create"])
		assert.True(t, actions["user_delete"])
	})
}
