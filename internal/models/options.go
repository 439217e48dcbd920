package models

import (
	"net/url"
	"strconv"
)

// Watermark gravity positions
const (
	PositionTopLeft     = "top-left"
	PositionTopRight    = "top-right"
	PositionBottomLeft  = "bottom-left"
	PositionBottomRight = "bottom-right"
	PositionCenter      = "center"
	PositionRepeat      = "repeat"
)

// Output formats
const (
	FormatWebP = "webp"
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)

// ImageLimits carries the configured bounds applied during normalization
type ImageLimits struct {
	MaxWidth       int
	MaxHeight      int
	DefaultQuality int
}

// TransformOptions is the canonical, fully-resolved transform description.
// All defaults are substituted and clamps applied at construction time, so
// two requests that resolve to the same effective options are identical
// values regardless of which query parameters were present.
type TransformOptions struct {
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Format    string            `json:"format"`
	Quality   int               `json:"quality"`
	Rotate    int               `json:"rotate"`
	Flip      bool              `json:"flip"`
	Flop      bool              `json:"flop"`
	Grayscale bool              `json:"grayscale"`
	Blur      float64           `json:"blur"`
	Sharpen   bool              `json:"sharpen"`
	Watermark *WatermarkOptions `json:"watermark,omitempty"`
	Crop      *CropOptions      `json:"crop,omitempty"`
}

// WatermarkOptions describes a text or image overlay
type WatermarkOptions struct {
	Text     string  `json:"text,omitempty"`
	Image    string  `json:"image,omitempty"`
	Position string  `json:"position"`
	Opacity  float64 `json:"opacity"`
}

// CropOptions describes a rectangular region extracted before resizing
type CropOptions struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ParseTransformOptions builds canonical TransformOptions from raw query
// parameters. Malformed numeric values fall through to their defaults
// instead of aborting the request.
func ParseTransformOptions(query url.Values, limits ImageLimits) TransformOptions {
	opts := TransformOptions{
		Width:     clampDimension(parseIntParam(query, "width"), limits.MaxWidth),
		Height:    clampDimension(parseIntParam(query, "height"), limits.MaxHeight),
		Format:    normalizeFormat(query.Get("format")),
		Quality:   parseQuality(query, limits.DefaultQuality),
		Rotate:    valueOrZero(parseIntParam(query, "rotate")),
		Flip:      parseBoolParam(query, "flip"),
		Flop:      parseBoolParam(query, "flop"),
		Grayscale: parseBoolParam(query, "grayscale"),
		Blur:      valueOrZeroFloat(parseFloatParam(query, "blur")),
		Sharpen:   parseBoolParam(query, "sharpen"),
	}

	opts.Watermark = parseWatermark(query)
	opts.Crop = parseCrop(query)

	return opts
}

// parseWatermark constructs watermark options only when text or image is
// present; position and opacity receive defaults otherwise omitted fields.
func parseWatermark(query url.Values) *WatermarkOptions {
	text := query.Get("watermarkText")
	image := query.Get("watermarkImage")
	if text == "" && image == "" {
		return nil
	}

	position := query.Get("watermarkPosition")
	if !isValidPosition(position) {
		position = PositionBottomRight
	}

	opacity := 0.5
	if v := parseFloatParam(query, "watermarkOpacity"); v != nil && *v >= 0 && *v <= 1 {
		opacity = *v
	}

	return &WatermarkOptions{
		Text:     text,
		Image:    image,
		Position: position,
		Opacity:  opacity,
	}
}

// parseCrop constructs crop options only when both crop dimensions parse
func parseCrop(query url.Values) *CropOptions {
	width := parseIntParam(query, "cropWidth")
	height := parseIntParam(query, "cropHeight")
	if width == nil || height == nil || *width <= 0 || *height <= 0 {
		return nil
	}

	return &CropOptions{
		Left:   valueOrZero(parseIntParam(query, "cropLeft")),
		Top:    valueOrZero(parseIntParam(query, "cropTop")),
		Width:  *width,
		Height: *height,
	}
}

// HasText reports whether the watermark renders text
func (w *WatermarkOptions) HasText() bool {
	return w != nil && w.Text != ""
}

// HasImage reports whether the watermark composites a secondary image
func (w *WatermarkOptions) HasImage() bool {
	return w != nil && w.Image != ""
}

// ContentTypeForFormat maps an output format to its MIME type
func ContentTypeForFormat(format string) string {
	switch format {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	default:
		return "image/webp"
	}
}

// Helper parsing functions

func parseIntParam(query url.Values, key string) *int {
	raw := query.Get(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func parseFloatParam(query url.Values, key string) *float64 {
	raw := query.Get(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func parseBoolParam(query url.Values, key string) bool {
	raw := query.Get(key)
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

// clampDimension resolves a requested dimension against the configured
// maximum: absent or invalid values default to the maximum, oversized
// requests are clamped down to it.
func clampDimension(requested *int, max int) int {
	if requested == nil || *requested <= 0 {
		return max
	}
	if *requested > max {
		return max
	}
	return *requested
}

func parseQuality(query url.Values, defaultQuality int) int {
	quality := parseIntParam(query, "quality")
	if quality == nil || *quality < 1 || *quality > 100 {
		return defaultQuality
	}
	return *quality
}

func normalizeFormat(format string) string {
	switch format {
	case FormatJPEG, "jpg":
		return FormatJPEG
	case FormatPNG:
		return FormatPNG
	default:
		// Unknown formats fall back to webp
		return FormatWebP
	}
}

func isValidPosition(position string) bool {
	switch position {
	case PositionTopLeft, PositionTopRight, PositionBottomLeft,
		PositionBottomRight, PositionCenter, PositionRepeat:
		return true
	}
	return false
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func valueOrZeroFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
