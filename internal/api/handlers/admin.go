package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"resizeit/internal/models"
	"resizeit/internal/service"
	"resizeit/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultListLimit = 100

// AdminHandler handles cache maintenance and stats endpoints
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Stats returns aggregated request, processing and cache metrics
// GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.adminService.Stats(c.Request.Context()))
}

// ClearObjectCache deletes durable cache entries matching a pattern
// POST /admin/cache/minio/clear
func (h *AdminHandler) ClearObjectCache(c *gin.Context) {
	ctx := c.Request.Context()
	pattern := c.Query("pattern")

	count, err := h.adminService.ClearObjectCache(ctx, pattern)
	if err != nil {
		logger.ErrorWithContext(ctx, "Object cache clear failed",
			zap.String("pattern", pattern),
			zap.Int("deleted_before_failure", count),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.AdminErrorResponse{
			Success: false,
			Error:   "Failed to clear cache: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.CacheClearResponse{
		Success: true,
		Message: fmt.Sprintf("Cleared %d cached objects", count),
		Count:   count,
	})
}

// ListObjectCache pages through durable cache entries
// GET /admin/cache/minio/list
func (h *AdminHandler) ListObjectCache(c *gin.Context) {
	ctx := c.Request.Context()

	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, models.AdminErrorResponse{
				Success: false,
				Error:   "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	objects, next, err := h.adminService.ListObjectCache(ctx, c.Query("prefix"), limit, c.Query("marker"))
	if err != nil {
		logger.ErrorWithContext(ctx, "Object cache list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.AdminErrorResponse{
			Success: false,
			Error:   "Failed to list cache: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.CacheListResponse{
		Success:    true,
		Objects:    objects,
		Count:      len(objects),
		NextMarker: next,
	})
}

// ClearFastCache flushes the fast cache tier entirely
// POST /admin/cache/dragonfly/clear
func (h *AdminHandler) ClearFastCache(c *gin.Context) {
	ctx := c.Request.Context()

	// The fast tier has no server-side pattern scan; only a full flush
	// is offered
	if c.Query("pattern") != "" {
		c.JSON(http.StatusBadRequest, models.AdminErrorResponse{
			Success: false,
			Error:   "Pattern-based clearing is not supported for the Dragonfly cache",
		})
		return
	}

	if err := h.adminService.ClearFastCache(ctx); err != nil {
		if _, ok := err.(models.UnsupportedError); ok {
			c.JSON(http.StatusBadRequest, models.AdminErrorResponse{
				Success: false,
				Error:   "Dragonfly cache is not enabled",
			})
			return
		}
		logger.ErrorWithContext(ctx, "Fast cache clear failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.AdminErrorResponse{
			Success: false,
			Error:   "Failed to clear cache: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.CacheClearResponse{
		Success: true,
		Message: "Dragonfly cache cleared",
	})
}

// Health reports per-dependency status and process memory
// GET /admin/health
func (h *AdminHandler) Health(c *gin.Context) {
	health := h.adminService.Health(c.Request.Context())

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
