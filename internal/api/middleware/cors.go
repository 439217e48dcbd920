package middleware

import (
	"net/http"

	"resizeit/internal/config"

	"github.com/gin-gonic/gin"
)

// CORS middleware handles Cross-Origin Resource Sharing
func CORS(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && isAllowedOrigin(origin, cfg) {
			c.Header("Access-Control-Allow-Origin", origin)
		} else if origin == "" && allowsAllOrigins(cfg) {
			c.Header("Access-Control-Allow-Origin", "*")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID, X-Requested-With")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Length, Content-Type")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func isAllowedOrigin(origin string, cfg *config.Config) bool {
	for _, allowed := range cfg.CORS.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func allowsAllOrigins(cfg *config.Config) bool {
	for _, allowed := range cfg.CORS.AllowedOrigins {
		if allowed == "*" {
			return true
		}
	}
	return false
}
