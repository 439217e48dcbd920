package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/icza/gox/imagex/colorx"
	"github.com/jdeng/goheif"
	"go.uber.org/zap"
	xwebp "golang.org/x/image/webp"

	"resizeit/internal/config"
	"resizeit/internal/models"
	"resizeit/pkg/logger"
)

// Engine implements TransformEngine on top of the imaging package
type Engine struct {
	config *config.Config
	// Assets resolves watermark image paths against object storage.
	// Optional; when nil image watermarks are skipped.
	Assets   AssetFetcher
	recorder MetricsRecorder
	bgColor  color.Color
}

// NewEngine creates a transform engine
func NewEngine(cfg *config.Config, assets AssetFetcher, recorder MetricsRecorder) *Engine {
	bg, err := colorx.ParseHexColor(cfg.Image.BackgroundColor)
	if err != nil {
		logger.Warn("Invalid background color, using black",
			zap.String("value", cfg.Image.BackgroundColor),
			zap.Error(err))
		bg = color.RGBA{A: 0xff}
	}

	return &Engine{
		config:   cfg,
		Assets:   assets,
		recorder: recorder,
		bgColor:  bg,
	}
}

// Transform applies the full pipeline: decode, crop, resize, rotate,
// flip, filters, watermark, encode
func (e *Engine) Transform(ctx context.Context, data []byte, opts models.TransformOptions) ([]byte, error) {
	start := time.Now()

	img, srcFormat, err := e.decode(data)
	if err != nil {
		return nil, err
	}

	img = e.applyGeometry(img, opts)
	img = e.applyFilters(img, opts)

	if opts.Watermark != nil {
		img = e.applyWatermark(ctx, img, *opts.Watermark)
	}

	out, err := e.encode(img, opts.Format, opts.Quality)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	logger.DebugWithContext(ctx, "Image transformed",
		zap.String("source_format", srcFormat),
		zap.String("format", opts.Format),
		zap.Int("input_size", len(data)),
		zap.Int("output_size", len(out)),
		zap.Duration("duration", duration))

	if e.recorder != nil {
		e.recorder.RecordProcessing(models.ProcessingMetric{
			InputSize:  len(data),
			OutputSize: len(out),
			Format:     opts.Format,
			Duration:   duration,
			Timestamp:  time.Now(),
		})
	}

	return out, nil
}

// ApplyWatermark composites a watermark onto the image and re-encodes it
// in its original format. Used at upload time, before the original is
// stored.
func (e *Engine) ApplyWatermark(ctx context.Context, data []byte, wm models.WatermarkOptions) ([]byte, error) {
	img, srcFormat, err := e.decode(data)
	if err != nil {
		return nil, err
	}

	img = e.applyWatermark(ctx, img, wm)

	// HEIC cannot be re-encoded; store watermarked HEIC uploads as JPEG
	format := srcFormat
	if format == "heic" {
		format = models.FormatJPEG
	}

	return e.encode(img, format, e.config.Image.Quality)
}

func (e *Engine) decode(data []byte) (image.Image, string, error) {
	if isHEIC(data) {
		img, err := goheif.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", models.DecodeError{Reason: fmt.Sprintf("heic decode failed: %v", err)}
		}
		return img, "heic", nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// image.Decode misses some webp variants the dedicated decoder handles
		if wimg, werr := xwebp.Decode(bytes.NewReader(data)); werr == nil {
			return wimg, models.FormatWebP, nil
		}
		return nil, "", models.DecodeError{Reason: err.Error()}
	}

	return img, format, nil
}

func (e *Engine) applyGeometry(img image.Image, opts models.TransformOptions) image.Image {
	if opts.Crop != nil {
		c := opts.Crop
		rect := image.Rect(c.Left, c.Top, c.Left+c.Width, c.Top+c.Height)
		img = imaging.Crop(img, rect)
	}

	// Fit never enlarges, so originals smaller than the target keep
	// their native dimensions
	img = imaging.Fit(img, opts.Width, opts.Height, imaging.Lanczos)

	if opts.Rotate != 0 {
		// imaging rotates counter-clockwise; requests use clockwise degrees
		img = imaging.Rotate(img, -float64(opts.Rotate), e.bgColor)
	}

	if opts.Flip {
		img = imaging.FlipV(img)
	}
	if opts.Flop {
		img = imaging.FlipH(img)
	}

	return img
}

func (e *Engine) applyFilters(img image.Image, opts models.TransformOptions) image.Image {
	if opts.Grayscale {
		img = imaging.Grayscale(img)
	}
	if opts.Blur > 0 {
		img = imaging.Blur(img, opts.Blur)
	}
	if opts.Sharpen {
		img = imaging.Sharpen(img, 1.0)
	}
	return img
}

func (e *Engine) encode(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case models.FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, models.ProcessingError{Operation: "encode", Reason: err.Error()}
		}
	case models.FormatPNG:
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, models.ProcessingError{Operation: "encode", Reason: err.Error()}
		}
	default:
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return nil, models.ProcessingError{Operation: "encode", Reason: err.Error()}
		}
	}

	return buf.Bytes(), nil
}

// heicBrands are the major brands an HEIC container declares in its
// ftyp box
var heicBrands = map[string]bool{
	"heic": true,
	"heix": true,
	"hevc": true,
	"hevx": true,
	"mif1": true,
	"msf1": true,
}

// isHEIC sniffs the ISO BMFF ftyp box for an HEIC major brand
func isHEIC(data []byte) bool {
	if len(data) < 12 {
		return false
	}

	box := string(data[4:12])
	for brand := range heicBrands {
		if box == "ftyp"+brand {
			return true
		}
	}

	// Some encoders pad the box type; fall back to the brand alone
	return heicBrands[string(data[8:12])]
}
