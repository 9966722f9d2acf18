// Package cachestrategy defines cache eviction strategy interfaces.
package cachestrategy

// Strategy decides which artifacts stay cached. Keys are cleaned artifact
// names, values are artifact contents.
type Strategy interface {
	Get(key string) ([]byte, bool)

	// Add stores value under key and reports whether another entry was
	// evicted to make room.
	Add(key string, value []byte) bool

	// Len is the number of cached artifacts.
	Len() int

	// Bytes is the total size of the cached artifacts.
	Bytes() int64
}
