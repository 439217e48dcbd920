package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"resizeit/internal/api/middleware"
)

func sizeLimitRouter(maxSize int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.RequestSizeLimit(maxSize))
	engine.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestRequestSizeLimit_AllowsSmallBody(t *testing.T) {
	engine := sizeLimitRouter(1024)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/", bytes.NewReader(make([]byte, 100))))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestSizeLimit_RejectsOversizedBody(t *testing.T) {
	engine := sizeLimitRouter(1024)

	req := httptest.NewRequest("POST", "/", bytes.NewReader(make([]byte, 2048)))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestSizeLimit_RejectsInvalidContentLength(t *testing.T) {
	engine := sizeLimitRouter(1024)

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Content-Length", "not-a-number")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestSizeLimit_SkipsGET(t *testing.T) {
	engine := sizeLimitRouter(10)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Content-Length", strconv.Itoa(2048))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
