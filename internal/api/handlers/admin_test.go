package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resizeit/internal/api/handlers"
	"resizeit/internal/models"
	"resizeit/internal/service"
	"resizeit/internal/testutil"
)

func setupAdminRouter(svc service.AdminService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewAdminHandler(svc)

	engine := gin.New()
	engine.GET("/admin/stats", handler.Stats)
	engine.GET("/admin/health", handler.Health)
	engine.POST("/admin/cache/minio/clear", handler.ClearObjectCache)
	engine.GET("/admin/cache/minio/list", handler.ListObjectCache)
	engine.POST("/admin/cache/dragonfly/clear", handler.ClearFastCache)
	return engine
}

func TestAdminHandler_Stats(t *testing.T) {
	svc := &testutil.MockAdminService{
		StatsFunc: func(ctx context.Context) *models.StatsSnapshot {
			return &models.StatsSnapshot{UptimeSec: 120}
		},
	}

	router := setupAdminRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var snapshot models.StatsSnapshot
	require.NoError(t, testutil.ParseJSONResponse(w, &snapshot))
	assert.Equal(t, int64(120), snapshot.UptimeSec)
}

func TestAdminHandler_ClearObjectCache(t *testing.T) {
	var gotPattern string
	svc := &testutil.MockAdminService{
		ClearObjectCacheFunc: func(ctx context.Context, pattern string) (int, error) {
			gotPattern = pattern
			return 42, nil
		},
	}

	router := setupAdminRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/cache/minio/clear?pattern=cache/aa*", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cache/aa*", gotPattern)

	var resp models.CacheClearResponse
	require.NoError(t, testutil.ParseJSONResponse(w, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 42, resp.Count)
}

func TestAdminHandler_ClearObjectCache_Error(t *testing.T) {
	svc := &testutil.MockAdminService{
		ClearObjectCacheFunc: func(ctx context.Context, pattern string) (int, error) {
			return 3, models.StorageError{Operation: "remove", Reason: "partial failure"}
		},
	}

	router := setupAdminRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/cache/minio/clear", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.AdminErrorResponse
	require.NoError(t, testutil.ParseJSONResponse(w, &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Failed to clear cache")
}

func TestAdminHandler_ListObjectCache(t *testing.T) {
	svc := &testutil.MockAdminService{
		ListObjectCacheFunc: func(ctx context.Context, prefix string, limit int, marker string) ([]models.CacheObjectInfo, string, error) {
			assert.Equal(t, 50, limit)
			assert.Equal(t, "cache/aaa", marker)
			return []models.CacheObjectInfo{
				{Key: "cache/bbb", Size: 2048, LastModified: time.Now()},
			}, "cache/bbb", nil
		},
	}

	router := setupAdminRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin/cache/minio/list?limit=50&marker=cache/aaa", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.CacheListResponse
	require.NoError(t, testutil.ParseJSONResponse(w, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "cache/bbb", resp.NextMarker)
}

func TestAdminHandler_ListObjectCache_InvalidLimit(t *testing.T) {
	router := setupAdminRouter(&testutil.MockAdminService{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin/cache/minio/list?limit=abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_ClearFastCache(t *testing.T) {
	cleared := false
	svc := &testutil.MockAdminService{
		ClearFastCacheFunc: func(ctx context.Context) error {
			cleared = true
			return nil
		},
	}

	router := setupAdminRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/cache/dragonfly/clear", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, cleared)
}

func TestAdminHandler_ClearFastCache_Disabled(t *testing.T) {
	svc := &testutil.MockAdminService{
		ClearFastCacheFunc: func(ctx context.Context) error {
			return models.UnsupportedError{Operation: "clear", Reason: "fast cache is not enabled"}
		},
	}

	router := setupAdminRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/cache/dragonfly/clear", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Dragonfly cache is not enabled"}`, w.Body.String())
}

func TestAdminHandler_ClearFastCache_PatternRejected(t *testing.T) {
	called := false
	svc := &testutil.MockAdminService{
		ClearFastCacheFunc: func(ctx context.Context) error {
			called = true
			return nil
		},
	}

	router := setupAdminRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/cache/dragonfly/clear?pattern=abc*", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}

func TestAdminHandler_Health(t *testing.T) {
	svc := &testutil.MockAdminService{
		HealthFunc: func(ctx context.Context) *models.AdminHealthResponse {
			return &models.AdminHealthResponse{
				Status:       "healthy",
				Dependencies: map[string]string{"s3": "healthy"},
			}
		},
	}

	router := setupAdminRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminHandler_Health_Degraded(t *testing.T) {
	svc := &testutil.MockAdminService{
		HealthFunc: func(ctx context.Context) *models.AdminHealthResponse {
			return &models.AdminHealthResponse{Status: "degraded"}
		},
	}

	router := setupAdminRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
