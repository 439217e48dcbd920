package middleware

import (
	"time"

	"resizeit/internal/models"
	"resizeit/internal/service"

	"github.com/gin-gonic/gin"
)

// Metrics middleware records per-request timing into the recorder
func Metrics(recorder service.MetricsRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		recorder.RecordRequest(models.RequestMetric{
			Method:    c.Request.Method,
			Path:      c.FullPath(),
			Status:    c.Writer.Status(),
			Duration:  time.Since(start),
			Timestamp: time.Now(),
		})
	}
}
