package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"resizeit/internal/api/middleware"
	"resizeit/internal/config"
	"resizeit/internal/testutil"
)

func authRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", middleware.APIKeyAuth(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.Auth.Enabled = false

	w := httptest.NewRecorder()
	authRouter(cfg).ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []string{"secret-key"}

	w := httptest.NewRecorder()
	authRouter(cfg).ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []string{"secret-key"}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	w := httptest.NewRecorder()
	authRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []string{"secret-key", "other-key"}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", "other-key")
	w := httptest.NewRecorder()
	authRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "********", middleware.MaskAPIKey("12345678"))
	assert.Equal(t, "12345678****", middleware.MaskAPIKey("123456789abc"))
	assert.Equal(t, "***", middleware.MaskAPIKey("abc"))
}
