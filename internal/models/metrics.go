package models

import "time"

// Cache metric operations
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheWrite = "write"
)

// Cache tiers
const (
	TierFast   = "fast"
	TierObject = "object"
)

// RequestMetric records one handled HTTP request
type RequestMetric struct {
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// ProcessingMetric records one transform execution
type ProcessingMetric struct {
	InputSize  int           `json:"input_size"`
	OutputSize int           `json:"output_size"`
	Format     string        `json:"format"`
	Duration   time.Duration `json:"duration_ms"`
	Timestamp  time.Time     `json:"timestamp"`
}

// CacheMetric records one cache lookup or write
type CacheMetric struct {
	Operation string        `json:"operation"`
	Tier      string        `json:"tier"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// StatsSnapshot is the aggregated metrics view served by /admin/stats
type StatsSnapshot struct {
	Requests   RequestStats    `json:"requests"`
	Processing ProcessingStats `json:"processing"`
	Cache      CacheStats      `json:"cache"`
	UptimeSec  int64           `json:"uptime_seconds"`
	Timestamp  time.Time       `json:"timestamp"`
}

// RequestStats aggregates request metrics
type RequestStats struct {
	Total              int64         `json:"total"`
	AvgDuration        float64       `json:"avg_duration_ms"`
	StatusDistribution map[int]int64 `json:"status_distribution"`
}

// ProcessingStats aggregates transform metrics
type ProcessingStats struct {
	Total              int64            `json:"total"`
	AvgDuration        float64          `json:"avg_duration_ms"`
	TotalInputBytes    int64            `json:"total_input_bytes"`
	TotalOutputBytes   int64            `json:"total_output_bytes"`
	CompressionRatio   float64          `json:"compression_ratio"`
	FormatDistribution map[string]int64 `json:"format_distribution"`
}

// CacheStats aggregates cache metrics
type CacheStats struct {
	Hits        int64            `json:"hits"`
	Misses      int64            `json:"misses"`
	Writes      int64            `json:"writes"`
	HitRate     float64          `json:"hit_rate"`
	TierHits    map[string]int64 `json:"tier_hits"`
	AvgDuration float64          `json:"avg_duration_ms"`
}
