package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Cache key namespaces. The same digest addresses both tiers: the durable
// object-storage entry lives under ObjectCachePrefix, the fast-cache value
// under FastCachePrefix.
const (
	ObjectCachePrefix = "cache/"
	FastCachePrefix   = "resize:"
)

// DeriveCacheKey computes the digest identifying a rendition of the image
// at path under the given options. The serialization has a fixed field
// order and operates on fully-resolved options, so semantically identical
// requests always hash identically no matter how their query parameters
// were spelled or ordered. Free-form fields are length-prefixed so that
// delimiter characters inside a value cannot forge a field boundary.
func DeriveCacheKey(path string, opts TransformOptions) string {
	var b strings.Builder

	writeStringField(&b, "path", path)
	fmt.Fprintf(&b, "|w=%d|h=%d|q=%d", opts.Width, opts.Height, opts.Quality)
	writeStringField(&b, "f", opts.Format)
	fmt.Fprintf(&b, "|r=%d|flip=%t|flop=%t|gray=%t|blur=%g|sharp=%t",
		opts.Rotate, opts.Flip, opts.Flop, opts.Grayscale, opts.Blur, opts.Sharpen)

	if wm := opts.Watermark; wm != nil {
		writeStringField(&b, "wmtext", wm.Text)
		writeStringField(&b, "wmimg", wm.Image)
		writeStringField(&b, "wmpos", wm.Position)
		fmt.Fprintf(&b, "|wmop=%g", wm.Opacity)
	}
	if crop := opts.Crop; crop != nil {
		fmt.Fprintf(&b, "|crop=%d,%d,%d,%d", crop.Left, crop.Top, crop.Width, crop.Height)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeStringField(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "|%s=%d:%s", name, len(value), value)
}

// ObjectCachePath returns the object-storage key for a digest
func ObjectCachePath(digest string) string {
	return ObjectCachePrefix + digest
}

// FastCacheKey returns the fast-cache key for a digest
func FastCacheKey(digest string) string {
	return FastCachePrefix + digest
}
