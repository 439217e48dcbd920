package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"resizeit/internal/config"
	"resizeit/internal/models"
	"resizeit/internal/service"
	"resizeit/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageHandler handles image-related HTTP requests
type ImageHandler struct {
	imageService service.ImageService
	config       *config.Config
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService service.ImageService, config *config.Config) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		config:       config,
	}
}

// Resize serves a transformed rendition of a stored image
// GET /images/resize/*path
func (h *ImageHandler) Resize(c *gin.Context) {
	ctx := c.Request.Context()
	path := c.Param("path")

	opts := models.ParseTransformOptions(c.Request.URL.Query(), models.ImageLimits{
		MaxWidth:       h.config.Image.MaxWidth,
		MaxHeight:      h.config.Image.MaxHeight,
		DefaultQuality: h.config.Image.Quality,
	})

	rendition, err := h.imageService.Resize(ctx, path, opts)
	if err != nil {
		h.handleServiceError(c, err, "resize failed")
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", h.config.Cache.MaxAge))
	c.Data(http.StatusOK, rendition.ContentType, rendition.Data)
}

// Upload stores a new original image from a base64 JSON payload
// POST /images/upload
func (h *ImageHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	var req models.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid upload payload",
			zap.Error(err),
			zap.String("request_id", requestID))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Request must contain image, path and contentType fields",
		})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Image field must be valid base64",
		})
		return
	}

	result, err := h.imageService.Upload(ctx, service.UploadInput{
		Path:        req.Path,
		ContentType: req.ContentType,
		Data:        data,
		Watermark:   req.Watermark,
	})
	if err != nil {
		h.handleServiceError(c, err, "upload failed")
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Success: true,
		Path:    result.Path,
		URL:     result.URL,
	})
}

// Health is the public liveness endpoint
// GET /images/health
func (h *ImageHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

// handleServiceError maps service layer errors to HTTP responses
func (h *ImageHandler) handleServiceError(c *gin.Context, err error, operation string) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	switch e := err.(type) {
	case models.ValidationError:
		logger.WarnWithContext(ctx, "Validation error",
			zap.String("field", e.Field),
			zap.String("message", e.Message),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: e.Error()})

	case models.NotFoundError:
		logger.WarnWithContext(ctx, "Resource not found",
			zap.String("resource", e.Resource),
			zap.String("path", e.Path),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: e.Resource + " not found"})

	// Decode, processing and storage failures all surface as a generic 500.
	// The detail stays in the logs; response bodies never leak codec or
	// backend internals.
	case models.DecodeError:
		logger.WarnWithContext(ctx, "Undecodable image",
			zap.String("reason", e.Reason),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Message: "Error processing image",
		})

	case models.ProcessingError:
		logger.ErrorWithContext(ctx, "Processing error",
			zap.String("operation_type", e.Operation),
			zap.String("reason", e.Reason),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Message: "Error processing image",
		})

	case models.StorageError, models.StorageUnavailableError:
		logger.ErrorWithContext(ctx, "Storage error",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Message: "Error processing image",
		})

	default:
		logger.ErrorWithContext(ctx, "Unknown error",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Message: "An unexpected error occurred",
		})
	}
}
