package api

import (
	"resizeit/internal/api/handlers"
	"resizeit/internal/api/middleware"
	"resizeit/internal/config"
	"resizeit/internal/service"

	"github.com/gin-gonic/gin"
)

// Router holds the HTTP router and dependencies
type Router struct {
	engine       *gin.Engine
	config       *config.Config
	imageHandler *handlers.ImageHandler
	adminHandler *handlers.AdminHandler
	rateLimiter  *middleware.RateLimiter
	recorder     service.MetricsRecorder
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(cfg *config.Config, imageService service.ImageService, adminService service.AdminService, recorder service.MetricsRecorder) *Router {
	gin.SetMode(cfg.Server.GinMode)

	router := &Router{
		engine:       gin.New(),
		config:       cfg,
		imageHandler: handlers.NewImageHandler(imageService, cfg),
		adminHandler: handlers.NewAdminHandler(adminService),
		rateLimiter:  middleware.NewRateLimiter(cfg),
		recorder:     recorder,
	}

	router.setupMiddleware()
	router.setupRoutes()

	return router
}

// setupMiddleware configures all middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Metrics(r.recorder))
	r.engine.Use(middleware.CORS(r.config))
	r.engine.Use(middleware.SecurityHeaders(r.config))
	r.engine.Use(r.rateLimiter.Middleware())
	r.engine.Use(middleware.RequestSizeLimit(r.config.Image.MaxFileSize))
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	images := r.engine.Group("/images")
	{
		images.GET("/health", r.imageHandler.Health)
		images.GET("/resize/*path", r.imageHandler.Resize)
		images.POST("/upload", middleware.APIKeyAuth(r.config), r.imageHandler.Upload)
	}

	admin := r.engine.Group("/admin", middleware.APIKeyAuth(r.config))
	{
		admin.GET("/stats", r.adminHandler.Stats)
		admin.GET("/health", r.adminHandler.Health)
		admin.POST("/cache/minio/clear", r.adminHandler.ClearObjectCache)
		admin.GET("/cache/minio/list", r.adminHandler.ListObjectCache)
		admin.POST("/cache/dragonfly/clear", r.adminHandler.ClearFastCache)
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Stop releases router-held resources
func (r *Router) Stop() {
	r.rateLimiter.Stop()
}
