package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"campusgate/internal/config"
	"campusgate/internal/models"
	"campusgate/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB initializes a test database
func setupTestDB(t *testing.T) *config.Config {
	tmpDir := os.TempDir()
	testDBPath := fmt.Sprintf("%s/campusgate_test_%d.db", tmpDir, time.Now().UnixNano())

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type: "sqlite",
			SQLite: config.SQLiteConfig{
				Path: testDBPath,
			},
		},
		JWT: config.JWTConfig{
			Secret:    "test-secret-key-for-testing-only",
			ExpiresIn: "24h",
			Issuer:    "campusgate-test",
		},
		Security: config.SecurityConfig{
			BcryptCost: 10,
		},
		Parking: config.ParkingConfig{
			TotalSpaces: 10,
		},
	}

	err := models.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, models.SeedParkingConfig(cfg.Parking.TotalSpaces))

	return cfg
}

// cleanupTestDB cleans up test database
func cleanupTestDB(t *testing.T, cfg *config.Config) {
	if models.DB != nil {
		sqlDB, err := models.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
		if cfg != nil && cfg.Database.Type == "sqlite" {
			os.Remove(cfg.Database.SQLite.Path)
		}
	}
	models.DB = nil
}

// createTestUser creates a test user and returns it
func createTestUser(t *testing.T, authService *services.AuthService, username, password, role string) *models.User {
	user, err := authService.CreateUser(username, password, role)
	require.NoError(t, err)
	return user
}

// createTestToken creates a JWT token for testing
func createTestToken(t *testing.T, cfg *config.Config, authService *services.AuthService, user *models.User) string {
	expiresIn, _ := time.ParseDuration(cfg.JWT.ExpiresIn)
	if expiresIn == 0 {
		expiresIn = 24 * time.Hour
	}
	now := time.Now()
	expiresAt := now.Add(expiresIn)

	// Add jti (JWT ID) with nanosecond timestamp to ensure uniqueness
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
		"iss":      cfg.JWT.Issuer,
		"jti":      fmt.Sprintf("%d-%d", user.ID, now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	// Create session in database
	err = authService.CreateSession(user.ID, tokenString, expiresAt)
	require.NoError(t, err)

	return tokenString
}

// setupTestRouter creates a test router with routes
func setupTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, cfg)
	return r
}

// doJSON performs a request with an optional token and JSON body
func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		jsonData, _ := json.Marshal(body)
		buf = bytes.NewBuffer(jsonData)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthAndAuthRoutes(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	authService := services.NewAuthService(cfg)
	adminUser := createTestUser(t, authService, "admin", "admin123", "admin")
	router := setupTestRouter(cfg)

	t.Run("GET /api/health - Public", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GET /metrics - Public", func(t *testing.T) {
		w := doJSON(router, "GET", "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST /api/auth/login - Success", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/auth/login", "", map[string]interface{}{
			"username": "admin",
			"password": "admin123",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Contains(t, response, "token")
		assert.Contains(t, response, "user")
	})

	t.Run("POST /api/auth/login - Invalid credentials", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/auth/login", "", map[string]interface{}{
			"username": "admin",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /api/auth/me - Success", func(t *testing.T) {
		token := createTestToken(t, cfg, authService, adminUser)
		w := doJSON(router, "GET", "/api/auth/me", token, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.User
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "admin", response.Username)
		assert.Empty(t, response.PasswordHash)
	})

	t.Run("GET /api/auth/me - Unauthorized (no token)", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("POST /api/auth/logout - Invalidates session", func(t *testing.T) {
		token := createTestToken(t, cfg, authService, adminUser)

		w := doJSON(router, "POST", "/api/auth/logout", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(router, "GET", "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Requests carry a request id", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}
