// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Pipeline metrics.
	MetricCompress       = "lzwpack_compress_total"
	MetricDecompress     = "lzwpack_decompress_total"
	MetricBytesIn        = "lzwpack_bytes_in_total"
	MetricBytesOut       = "lzwpack_bytes_out_total"
	MetricCodes          = "lzwpack_codes_total"
	MetricCorruptStreams = "lzwpack_corrupt_streams_total"
	MetricDictionarySize = "lzwpack_dictionary_size"
	MetricRatio          = "lzwpack_compression_ratio"

	// Cache metrics.
	MetricCacheHits   = "lzwpack_cache_hits_total"
	MetricCacheMisses = "lzwpack_cache_misses_total"
	MetricCacheSize   = "lzwpack_cache_size"
	MetricCacheBytes  = "lzwpack_cache_bytes"
)

// Help returns the description of a known metric, or the name itself.
func Help(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}

var help = map[string]string{
	MetricCompress:       "Number of compress operations.",
	MetricDecompress:     "Number of decompress operations.",
	MetricBytesIn:        "Bytes consumed by compress and decompress.",
	MetricBytesOut:       "Bytes produced by compress and decompress.",
	MetricCodes:          "LZW codes emitted or consumed.",
	MetricCorruptStreams: "Compressed inputs rejected as corrupt.",
	MetricDictionarySize: "Dictionary size reached by the last operation.",
	MetricRatio:          "Compression ratio (input bytes / output bytes) per compress.",
	MetricCacheHits:      "Artifact cache hits.",
	MetricCacheMisses:    "Artifact cache misses.",
	MetricCacheSize:      "Artifacts held in the cache.",
	MetricCacheBytes:     "Bytes of artifacts held in the cache.",
}

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
