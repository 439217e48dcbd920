package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCacheKey_Deterministic(t *testing.T) {
	opts := ParseTransformOptions(url.Values{
		"width":   {"200"},
		"height":  {"200"},
		"format":  {"webp"},
		"quality": {"80"},
	}, testLimits)

	first := DeriveCacheKey("images/a.jpg", opts)
	second := DeriveCacheKey("images/a.jpg", opts)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // sha256 hex
}

func TestDeriveCacheKey_DefaultInvariance(t *testing.T) {
	// Explicitly requesting the default values must hash identically to
	// omitting them entirely.
	implicit := ParseTransformOptions(url.Values{}, testLimits)
	explicit := ParseTransformOptions(url.Values{
		"width":   {"1920"},
		"height":  {"1080"},
		"format":  {"webp"},
		"quality": {"80"},
		"rotate":  {"0"},
	}, testLimits)

	assert.Equal(t,
		DeriveCacheKey("images/a.jpg", implicit),
		DeriveCacheKey("images/a.jpg", explicit))
}

func TestDeriveCacheKey_ParameterOrderInvariance(t *testing.T) {
	// url.Values is a map, but build two queries in different textual
	// orders to confirm parse order cannot leak into the digest.
	q1, _ := url.ParseQuery("width=300&height=150&grayscale=true")
	q2, _ := url.ParseQuery("grayscale=true&height=150&width=300")

	assert.Equal(t,
		DeriveCacheKey("images/a.jpg", ParseTransformOptions(q1, testLimits)),
		DeriveCacheKey("images/a.jpg", ParseTransformOptions(q2, testLimits)))
}

func TestDeriveCacheKey_DistinctInputsDiffer(t *testing.T) {
	base := ParseTransformOptions(url.Values{"width": {"200"}}, testLimits)
	baseKey := DeriveCacheKey("images/a.jpg", base)

	// Different path
	assert.NotEqual(t, baseKey, DeriveCacheKey("images/b.jpg", base))

	// Different width
	other := ParseTransformOptions(url.Values{"width": {"201"}}, testLimits)
	assert.NotEqual(t, baseKey, DeriveCacheKey("images/a.jpg", other))

	// Watermark presence changes the key
	marked := base
	marked.Watermark = &WatermarkOptions{Text: "x", Position: PositionCenter, Opacity: 0.5}
	assert.NotEqual(t, baseKey, DeriveCacheKey("images/a.jpg", marked))

	// Crop presence changes the key
	cropped := base
	cropped.Crop = &CropOptions{Width: 10, Height: 10}
	assert.NotEqual(t, baseKey, DeriveCacheKey("images/a.jpg", cropped))
}

func TestDeriveCacheKey_DelimiterBearingValuesDiffer(t *testing.T) {
	// Delimiter characters inside a value must not forge a field boundary:
	// these option sets would serialize identically if fields were joined
	// with bare separators.
	base := ParseTransformOptions(url.Values{"width": {"200"}}, testLimits)

	a := base
	a.Watermark = &WatermarkOptions{Text: "x,img:y", Position: PositionCenter, Opacity: 0.5}
	b := base
	b.Watermark = &WatermarkOptions{Text: "x", Image: "y,img:", Position: PositionCenter, Opacity: 0.5}
	assert.NotEqual(t,
		DeriveCacheKey("images/a.jpg", a),
		DeriveCacheKey("images/a.jpg", b))

	// Same trick through the path segment.
	assert.NotEqual(t,
		DeriveCacheKey("images/a.jpg|w=1", base),
		DeriveCacheKey("images/a.jpg", base))

	withDelims := base
	withDelims.Watermark = &WatermarkOptions{Text: "sale|50%", Position: PositionCenter, Opacity: 0.5}
	plain := base
	plain.Watermark = &WatermarkOptions{Text: "sale", Position: PositionCenter, Opacity: 0.5}
	assert.NotEqual(t,
		DeriveCacheKey("images/a.jpg", withDelims),
		DeriveCacheKey("images/a.jpg", plain))
}

func TestCacheKeyNamespaces(t *testing.T) {
	digest := DeriveCacheKey("images/a.jpg", ParseTransformOptions(url.Values{}, testLimits))

	assert.Equal(t, "cache/"+digest, ObjectCachePath(digest))
	assert.Equal(t, "resize:"+digest, FastCacheKey(digest))
}
