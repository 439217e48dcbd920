package service

import (
	"sync"
	"time"

	"resizeit/internal/models"
)

// maxSamples bounds each metric ring so memory stays flat under load
const maxSamples = 1000

// Monitor aggregates request, processing and cache metrics in bounded
// in-memory rings
type Monitor struct {
	mu         sync.RWMutex
	requests   []models.RequestMetric
	processing []models.ProcessingMetric
	cache      []models.CacheMetric
	startTime  time.Time
}

// NewMonitor creates a metrics monitor
func NewMonitor() *Monitor {
	return &Monitor{
		requests:   make([]models.RequestMetric, 0, maxSamples),
		processing: make([]models.ProcessingMetric, 0, maxSamples),
		cache:      make([]models.CacheMetric, 0, maxSamples),
		startTime:  time.Now(),
	}
}

func (m *Monitor) RecordRequest(metric models.RequestMetric) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = appendBounded(m.requests, metric)
}

func (m *Monitor) RecordProcessing(metric models.ProcessingMetric) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processing = appendBounded(m.processing, metric)
}

func (m *Monitor) RecordCache(metric models.CacheMetric) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = appendBounded(m.cache, metric)
}

// appendBounded drops the oldest sample once the ring is full
func appendBounded[T any](ring []T, sample T) []T {
	if len(ring) >= maxSamples {
		copy(ring, ring[1:])
		ring[len(ring)-1] = sample
		return ring
	}
	return append(ring, sample)
}

// Snapshot aggregates the retained samples into a stats report
func (m *Monitor) Snapshot() *models.StatsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &models.StatsSnapshot{
		Requests:   m.requestStats(),
		Processing: m.processingStats(),
		Cache:      m.cacheStats(),
		UptimeSec:  int64(time.Since(m.startTime).Seconds()),
		Timestamp:  time.Now(),
	}
}

func (m *Monitor) requestStats() models.RequestStats {
	stats := models.RequestStats{
		Total:              int64(len(m.requests)),
		StatusDistribution: make(map[int]int64),
	}
	if len(m.requests) == 0 {
		return stats
	}

	var total time.Duration
	for _, r := range m.requests {
		total += r.Duration
		stats.StatusDistribution[r.Status]++
	}
	stats.AvgDuration = float64(total / time.Duration(len(m.requests)))
	return stats
}

func (m *Monitor) processingStats() models.ProcessingStats {
	stats := models.ProcessingStats{
		Total:              int64(len(m.processing)),
		FormatDistribution: make(map[string]int64),
	}
	if len(m.processing) == 0 {
		return stats
	}

	var total time.Duration
	for _, p := range m.processing {
		total += p.Duration
		stats.TotalInputBytes += int64(p.InputSize)
		stats.TotalOutputBytes += int64(p.OutputSize)
		stats.FormatDistribution[p.Format]++
	}
	stats.AvgDuration = float64(total / time.Duration(len(m.processing)))
	if stats.TotalInputBytes > 0 {
		stats.CompressionRatio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes)
	}
	return stats
}

func (m *Monitor) cacheStats() models.CacheStats {
	stats := models.CacheStats{
		TierHits: make(map[string]int64),
	}

	var total time.Duration
	var samples int64
	for _, c := range m.cache {
		switch c.Operation {
		case models.CacheHit:
			stats.Hits++
			stats.TierHits[c.Tier]++
		case models.CacheMiss:
			stats.Misses++
		case models.CacheWrite:
			stats.Writes++
		}
		total += c.Duration
		samples++
	}

	if lookups := stats.Hits + stats.Misses; lookups > 0 {
		stats.HitRate = float64(stats.Hits) / float64(lookups)
	}
	if samples > 0 {
		stats.AvgDuration = float64(total / time.Duration(samples))
	}
	return stats
}
