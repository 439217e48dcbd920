package middleware

import (
	"net/http"
	"slices"
	"strings"

	"resizeit/internal/config"
	"resizeit/internal/models"
	"resizeit/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIKeyAuth middleware validates API keys for protected endpoints
func APIKeyAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Auth.Enabled {
			c.Next()
			return
		}

		requestID := c.GetString("request_id")

		apiKey := c.GetHeader(cfg.Auth.KeyHeader)
		if apiKey == "" {
			logger.WarnWithContext(c.Request.Context(), "Missing API key",
				zap.String("request_id", requestID),
				zap.String("header", cfg.Auth.KeyHeader))

			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Message: "API key must be provided in " + cfg.Auth.KeyHeader + " header",
			})
			c.Abort()
			return
		}

		if !slices.Contains(cfg.Auth.APIKeys, apiKey) {
			logger.WarnWithContext(c.Request.Context(), "Invalid API key",
				zap.String("request_id", requestID),
				zap.String("api_key_prefix", MaskAPIKey(apiKey)))

			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Message: "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		logger.DebugWithContext(c.Request.Context(), "API key authenticated",
			zap.String("request_id", requestID),
			zap.String("api_key_prefix", MaskAPIKey(apiKey)))

		c.Next()
	}
}

// MaskAPIKey masks an API key for logging (shows only first 8 characters)
func MaskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return strings.Repeat("*", len(apiKey))
	}
	return apiKey[:8] + strings.Repeat("*", len(apiKey)-8)
}
