// File: /controllers/auth_controller_test.go
package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cinefest-api/middleware"
	"cinefest-api/models"
)

const testJWTSecret = "test-secret"

func setupAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	authController := NewAuthController(db, testJWTSecret)

	r := gin.New()
	r.POST("/auth/register", authController.Register)
	r.POST("/auth/login", authController.Login)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(testJWTSecret))
	protected.GET("/auth/me", authController.Profile)

	admin := protected.Group("/")
	admin.Use(middleware.AdminOnly())
	admin.GET("/users", authController.GetUsers)

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate username rejected
	w = doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login works with the email as well
	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"username_or_email": "alice@example.com",
		"password":          "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleParticipant, resp.User.Role)

	// Password never serializes
	assert.NotContains(t, w.Body.String(), "secret123")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"username_or_email": "alice",
		"password":          "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileRequiresToken(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := doJSON(t, r, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileWithToken(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"username_or_email": "alice",
		"password":          "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, r, http.MethodGet, "/auth/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
}

func TestAdminGate(t *testing.T) {
	r, db := setupAuthRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"username_or_email": "alice",
		"password":          "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var participant AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &participant))

	// A plain participant is rejected by the admin gate
	w = doJSON(t, r, http.MethodGet, "/users", participant.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Promote, re-login for a token carrying the new role claim
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "alice").
		Update("role", models.RoleAdmin).Error)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"username_or_email": "alice",
		"password":          "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var admin AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &admin))

	w = doJSON(t, r, http.MethodGet, "/users", admin.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
