package models

import "time"

// ErrorResponse is the standard error body: every failure carries a
// human-readable message and nothing else
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the public liveness body
type HealthResponse struct {
	Status string `json:"status"`
}

// UploadRequest is the JSON payload for storing a new original
type UploadRequest struct {
	Image       string            `json:"image" binding:"required"`
	Path        string            `json:"path" binding:"required"`
	ContentType string            `json:"contentType" binding:"required"`
	Watermark   *WatermarkOptions `json:"watermark,omitempty"`
}

// UploadResponse confirms a stored original and its resize URL
type UploadResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	URL     string `json:"url"`
}

// AdminErrorResponse is the admin-surface error body
type AdminErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// CacheClearResponse reports the outcome of a cache clear
type CacheClearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// CacheObjectInfo describes one cached object in an admin listing
type CacheObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// CacheListResponse is a marker-paginated cache listing
type CacheListResponse struct {
	Success    bool              `json:"success"`
	Objects    []CacheObjectInfo `json:"objects"`
	Count      int               `json:"count"`
	NextMarker string            `json:"nextMarker,omitempty"`
}

// AdminHealthResponse reports per-dependency status plus process memory
type AdminHealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
	Memory       MemoryInfo        `json:"memory"`
	Timestamp    time.Time         `json:"timestamp"`
}

// MemoryInfo holds process memory usage in megabytes
type MemoryInfo struct {
	AllocMB      float64 `json:"allocMB"`
	TotalAllocMB float64 `json:"totalAllocMB"`
	SysMB        float64 `json:"sysMB"`
}
