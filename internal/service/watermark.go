package service

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"resizeit/internal/models"
	"resizeit/pkg/logger"
)

const (
	watermarkMargin     = 10
	watermarkImageWidth = 150
	watermarkFontSize   = 24
)

// applyWatermark composites a text or image watermark onto img.
// Watermarking is best-effort: any failure logs a warning and returns
// the image untouched.
func (e *Engine) applyWatermark(ctx context.Context, img image.Image, wm models.WatermarkOptions) image.Image {
	if wm.HasImage() {
		out, err := e.overlayImageWatermark(ctx, img, wm)
		if err != nil {
			logger.WarnWithContext(ctx, "Image watermark failed, serving without it",
				zap.String("asset", wm.Image),
				zap.Error(err))
			return img
		}
		return out
	}

	if wm.HasText() {
		out, err := overlayTextWatermark(img, wm)
		if err != nil {
			logger.WarnWithContext(ctx, "Text watermark failed, serving without it",
				zap.Error(err))
			return img
		}
		return out
	}

	return img
}

func (e *Engine) overlayImageWatermark(ctx context.Context, img image.Image, wm models.WatermarkOptions) (image.Image, error) {
	if e.Assets == nil {
		return nil, models.ProcessingError{Operation: "watermark", Reason: "no asset fetcher configured"}
	}

	data, err := e.Assets(ctx, wm.Image)
	if err != nil {
		return nil, err
	}

	mark, _, err := e.decode(data)
	if err != nil {
		return nil, err
	}

	mark = imaging.Resize(mark, watermarkImageWidth, 0, imaging.Lanczos)

	if wm.Position == models.PositionRepeat {
		return tileWatermark(img, mark, wm.Opacity), nil
	}

	pos := watermarkPosition(img.Bounds(), mark.Bounds(), wm.Position)
	return imaging.Overlay(img, mark, pos, wm.Opacity), nil
}

func overlayTextWatermark(img image.Image, wm models.WatermarkOptions) (image.Image, error) {
	mark, err := renderText(wm.Text, wm.Opacity)
	if err != nil {
		return nil, err
	}

	if wm.Position == models.PositionRepeat {
		return tileWatermark(img, mark, wm.Opacity), nil
	}

	pos := watermarkPosition(img.Bounds(), mark.Bounds(), wm.Position)
	return imaging.Overlay(img, mark, pos, wm.Opacity), nil
}

// renderText rasterizes text onto a transparent canvas
func renderText(text string, opacity float64) (image.Image, error) {
	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, models.ProcessingError{Operation: "watermark", Reason: err.Error()}
	}

	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: watermarkFontSize,
		DPI:  72,
	})
	if err != nil {
		return nil, models.ProcessingError{Operation: "watermark", Reason: err.Error()}
	}
	defer face.Close()

	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	canvas := image.NewNRGBA(image.Rect(0, 0, width+2, height+2))

	alpha := uint8(opacity * 255)
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: alpha}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(1), Y: metrics.Ascent + fixed.I(1)},
	}
	drawer.DrawString(text)

	return canvas, nil
}

// tileWatermark covers the whole image with diagonal copies of the mark
func tileWatermark(img image.Image, mark image.Image, opacity float64) image.Image {
	rotated := imaging.Rotate(mark, 45, color.NRGBA{})

	bounds := img.Bounds()
	out := imaging.Clone(img)

	stepX := rotated.Bounds().Dx() + watermarkMargin*4
	stepY := rotated.Bounds().Dy() + watermarkMargin*4

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			out = imaging.Overlay(out, rotated, image.Pt(x, y), opacity)
		}
	}

	return out
}

// watermarkPosition maps a gravity name to pixel coordinates with a
// fixed margin
func watermarkPosition(img image.Rectangle, mark image.Rectangle, position string) image.Point {
	iw, ih := img.Dx(), img.Dy()
	mw, mh := mark.Dx(), mark.Dy()

	switch position {
	case models.PositionTopLeft:
		return image.Pt(watermarkMargin, watermarkMargin)
	case models.PositionTopRight:
		return image.Pt(iw-mw-watermarkMargin, watermarkMargin)
	case models.PositionBottomLeft:
		return image.Pt(watermarkMargin, ih-mh-watermarkMargin)
	case models.PositionCenter:
		return image.Pt((iw-mw)/2, (ih-mh)/2)
	default: // bottom-right
		return image.Pt(iw-mw-watermarkMargin, ih-mh-watermarkMargin)
	}
}
