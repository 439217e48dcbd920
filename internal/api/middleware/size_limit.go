package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"resizeit/internal/models"
	"resizeit/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestSizeLimit middleware limits the size of incoming request bodies
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" {
			c.Next()
			return
		}

		if contentLengthStr := c.Request.Header.Get("Content-Length"); contentLengthStr != "" {
			contentLength, err := strconv.ParseInt(contentLengthStr, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Message: "Content-Length header contains invalid value",
				})
				c.Abort()
				return
			}

			if contentLength > maxSize {
				logger.WarnWithContext(c.Request.Context(), "Request size exceeds limit",
					zap.Int64("content_length", contentLength),
					zap.Int64("max_size", maxSize),
					zap.String("client_ip", c.ClientIP()),
					zap.String("request_id", c.GetString("request_id")))

				c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Message: fmt.Sprintf("Request size %d bytes exceeds maximum allowed size of %d bytes", contentLength, maxSize),
				})
				c.Abort()
				return
			}
		}

		// Guard against bodies that lie about their Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)

		c.Next()
	}
}
