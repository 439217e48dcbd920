package testutil

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"time"

	"resizeit/internal/config"

	"github.com/gin-gonic/gin"
)

// TestConfig returns a configuration suitable for unit tests
func TestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:    "0.0.0.0",
			Port:    "3000",
			GinMode: "test",
		},
		S3: config.S3Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "test",
			SecretKey: "test",
			Bucket:    "test-images",
			Region:    "us-east-1",
			UseSSL:    false,
		},
		Image: config.ImageConfig{
			MaxWidth:        1920,
			MaxHeight:       1080,
			Quality:         80,
			MaxFileSize:     10485760,
			BackgroundColor: "#000000",
		},
		Cache: config.CacheConfig{
			Enabled: true,
			MaxAge:  86400,
		},
		FastCache: config.FastCacheConfig{
			Enabled: false,
			Type:    "dragonfly",
			Host:    "localhost",
			Port:    6379,
			TTL:     time.Hour,
		},
		Auth: config.AuthConfig{
			Enabled:   false,
			KeyHeader: "X-API-Key",
		},
		RateLimit: config.RateLimitConfig{
			Max:    100,
			Window: time.Minute,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Logger: config.LoggerConfig{
			Level:  "debug",
			Format: "console",
		},
	}
}

// CreateTestJPEG encodes a solid-color JPEG of the given dimensions
func CreateTestJPEG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, color.RGBA{R: 0x80, G: 0x40, B: 0x20, A: 0xff})

	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

// CreateTestPNG encodes a solid-color PNG of the given dimensions
func CreateTestPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, color.RGBA{R: 0x20, G: 0x40, B: 0x80, A: 0xff})

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// CreateHEICHeader builds the first bytes of an HEIC container with
// the given major brand. Not a decodable file; for sniffing tests only.
func CreateHEICHeader(brand string) []byte {
	data := make([]byte, 24)
	data[3] = 24
	copy(data[4:], "ftyp")
	copy(data[8:], brand)
	return data
}

// ParseJSONResponse unmarshals a recorded JSON response body
func ParseJSONResponse(resp *httptest.ResponseRecorder, target interface{}) error {
	return json.Unmarshal(resp.Body.Bytes(), target)
}

// SetupTestContext creates a Gin test context with a request ID set
func SetupTestContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("request_id", "test-request-id")
	return c, w
}
