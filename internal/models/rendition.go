package models

import "time"

// CachedRendition is the stored transform artifact. The same logical
// entity lives in both cache tiers: durable object storage under
// cache/<digest> and the TTL-bounded fast cache under the digest key.
// Content at a given key is a pure function of the original bytes and the
// transform options; a changed original at the same path keeps serving the
// old rendition until an explicit admin clear.
type CachedRendition struct {
	Data        []byte    `json:"data"`
	ContentType string    `json:"content_type"`
	CacheTime   time.Time `json:"cache_time"`
}

// NewRendition builds a rendition stamped with the current time
func NewRendition(data []byte, contentType string) *CachedRendition {
	return &CachedRendition{
		Data:        data,
		ContentType: contentType,
		CacheTime:   time.Now(),
	}
}

// Size returns the rendition payload size in bytes
func (r *CachedRendition) Size() int {
	return len(r.Data)
}
