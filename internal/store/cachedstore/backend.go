// Package cachedstore wraps a Store with a read-through artifact cache.
package cachedstore

// Backend holds cached artifacts for a Store. Implementations own the
// eviction strategy.
type Backend interface {
	// Get returns a cached artifact, or nil, false.
	Get(name string) ([]byte, bool)

	// Set caches an artifact.
	Set(name string, data []byte)

	Stats() Stats
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int   // cached artifacts
	Bytes     int64 // total size of cached artifacts
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
