package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resizeit/internal/config"
	"resizeit/internal/models"
)

func testEngineConfig() *config.Config {
	return &config.Config{
		Image: config.ImageConfig{
			MaxWidth:        1920,
			MaxHeight:       1080,
			Quality:         80,
			MaxFileSize:     10485760,
			BackgroundColor: "#000000",
		},
	}
}

func encodeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 0x40, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func decodeDimensions(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func heicHeader(brand string) []byte {
	data := make([]byte, 24)
	data[3] = 24
	copy(data[4:], "ftyp")
	copy(data[8:], brand)
	return data
}

func TestIsHEIC(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{"heic brand", heicHeader("heic"), true},
		{"heix brand", heicHeader("heix"), true},
		{"hevc brand", heicHeader("hevc"), true},
		{"hevx brand", heicHeader("hevx"), true},
		{"mif1 brand", heicHeader("mif1"), true},
		{"msf1 brand", heicHeader("msf1"), true},
		{"jpeg brand is not heic", heicHeader("jpeg"), false},
		{"too short", []byte("ftypheic"), false},
		{"empty", nil, false},
		{"jpeg magic", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0, 0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHEIC(tt.data))
		})
	}
}

func TestIsHEIC_BrandWithoutBoxType(t *testing.T) {
	// Brand code present at offset 8 even though offset 4 is not "ftyp"
	data := make([]byte, 16)
	copy(data[8:], "heic")
	assert.True(t, isHEIC(data))
}

func TestEngine_Transform_Resize(t *testing.T) {
	engine := NewEngine(testEngineConfig(), nil, nil)
	src := encodeTestJPEG(t, 800, 600)

	out, err := engine.Transform(context.Background(), src, models.TransformOptions{
		Width:   400,
		Height:  300,
		Format:  models.FormatJPEG,
		Quality: 80,
	})
	require.NoError(t, err)

	w, h := decodeDimensions(t, out)
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
}

func TestEngine_Transform_NoEnlargement(t *testing.T) {
	engine := NewEngine(testEngineConfig(), nil, nil)
	src := encodeTestJPEG(t, 200, 100)

	out, err := engine.Transform(context.Background(), src, models.TransformOptions{
		Width:   1920,
		Height:  1080,
		Format:  models.FormatJPEG,
		Quality: 80,
	})
	require.NoError(t, err)

	w, h := decodeDimensions(t, out)
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
}

func TestEngine_Transform_PreservesAspectRatio(t *testing.T) {
	engine := NewEngine(testEngineConfig(), nil, nil)
	src := encodeTestJPEG(t, 800, 400)

	out, err := engine.Transform(context.Background(), src, models.TransformOptions{
		Width:   400,
		Height:  400,
		Format:  models.FormatJPEG,
		Quality: 80,
	})
	require.NoError(t, err)

	w, h := decodeDimensions(t, out)
	assert.Equal(t, 400, w)
	assert.Equal(t, 200, h)
}

func TestEngine_Transform_Crop(t *testing.T) {
	engine := NewEngine(testEngineConfig(), nil, nil)
	src := encodeTestJPEG(t, 800, 600)

	out, err := engine.Transform(context.Background(), src, models.TransformOptions{
		Width:   1920,
		Height:  1080,
		Format:  models.FormatJPEG,
		Quality: 80,
		Crop:    &models.CropOptions{Left: 100, Top: 50, Width: 300, Height: 200},
	})
	require.NoError(t, err)

	w, h := decodeDimensions(t, out)
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)
}

func TestEngine_Transform_Rotate90SwapsDimensions(t *testing.T) {
	engine := NewEngine(testEngineConfig(), nil, nil)
	src := encodeTestJPEG(t, 400, 200)

	out, err := engine.Transform(context.Background(), src, models.TransformOptions{
		Width:   1920,
		Height:  1080,
		Format:  models.FormatJPEG,
		Quality: 80,
		Rotate:  90,
	})
	require.NoError(t, err)

	w, h := decodeDimensions(t, out)
	assert.Equal(t, 200, w)
	assert.Equal(t, 400, h)
}

func TestEngine_Transform_Deterministic(t *testing.T) {
	engine := NewEngine(testEngineConfig(), nil, nil)
	src := encodeTestJPEG(t, 640, 480)
	opts := models.TransformOptions{
		Width:     320,
		Height:    240,
		Format:    models.FormatJPEG,
		Quality:   75,
		Grayscale: true,
	}

	first, err := engine.Transform(context.Background(), src, opts)
	require.NoError(t, err)
	second, err := engine.Transform(context.Background(), src, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Transform_InvalidData(t *testing.T) {
	engine := NewEngine(testEngineConfig(), nil, nil)

	_, err := engine.Transform(context.Background(), []byte("not an image"), models.TransformOptions{
		Width:   100,
		Height:  100,
		Format:  models.FormatJPEG,
		Quality: 80,
	})

	require.Error(t, err)
	var decodeErr models.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestEngine_Transform_PNGOutput(t *testing.T) {
	engine := NewEngine(testEngineConfig(), nil, nil)
	src := encodeTestJPEG(t, 100, 100)

	out, err := engine.Transform(context.Background(), src, models.TransformOptions{
		Width:   50,
		Height:  50,
		Format:  models.FormatPNG,
		Quality: 80,
	})
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestEngine_Transform_ImageWatermarkAssetFailureIsGraceful(t *testing.T) {
	fetcher := func(ctx context.Context, path string) ([]byte, error) {
		return nil, models.NotFoundError{Resource: "Object", Path: path}
	}
	engine := NewEngine(testEngineConfig(), fetcher, nil)
	src := encodeTestJPEG(t, 200, 200)

	out, err := engine.Transform(context.Background(), src, models.TransformOptions{
		Width:   100,
		Height:  100,
		Format:  models.FormatJPEG,
		Quality: 80,
		Watermark: &models.WatermarkOptions{
			Image:    "watermarks/logo.png",
			Position: models.PositionBottomRight,
			Opacity:  0.5,
		},
	})

	require.NoError(t, err)
	w, h := decodeDimensions(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
}

func TestEngine_Transform_TextWatermark(t *testing.T) {
	engine := NewEngine(testEngineConfig(), nil, nil)
	src := encodeTestJPEG(t, 400, 300)

	out, err := engine.Transform(context.Background(), src, models.TransformOptions{
		Width:   400,
		Height:  300,
		Format:  models.FormatJPEG,
		Quality: 80,
		Watermark: &models.WatermarkOptions{
			Text:     "sample",
			Position: models.PositionCenter,
			Opacity:  0.5,
		},
	})

	require.NoError(t, err)
	w, h := decodeDimensions(t, out)
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
}

func TestEngine_RecordsProcessingMetrics(t *testing.T) {
	recorder := NewMonitor()
	engine := NewEngine(testEngineConfig(), nil, recorder)
	src := encodeTestJPEG(t, 100, 100)

	_, err := engine.Transform(context.Background(), src, models.TransformOptions{
		Width:   50,
		Height:  50,
		Format:  models.FormatJPEG,
		Quality: 80,
	})
	require.NoError(t, err)

	snapshot := recorder.Snapshot()
	assert.Equal(t, int64(1), snapshot.Processing.Total)
	assert.Equal(t, int64(1), snapshot.Processing.FormatDistribution[models.FormatJPEG])
}

func TestWatermarkPosition(t *testing.T) {
	img := image.Rect(0, 0, 1000, 800)
	mark := image.Rect(0, 0, 150, 50)

	tests := []struct {
		position string
		expected image.Point
	}{
		{models.PositionTopLeft, image.Pt(10, 10)},
		{models.PositionTopRight, image.Pt(840, 10)},
		{models.PositionBottomLeft, image.Pt(10, 740)},
		{models.PositionBottomRight, image.Pt(840, 740)},
		{models.PositionCenter, image.Pt(425, 375)},
	}

	for _, tt := range tests {
		t.Run(tt.position, func(t *testing.T) {
			assert.Equal(t, tt.expected, watermarkPosition(img, mark, tt.position))
		})
	}
}
