// Package codec defines whole-buffer compression codecs.
package codec

// Codec compresses and decompresses complete buffers.
type Codec interface {
	// Name returns a short identifier such as "lzw" or "zstd".
	Name() string
	// Extension returns the artifact suffix without dot (e.g., "zipped", "zst").
	// Returns empty string for no compression.
	Extension() string
	// Encode returns the compressed form of src.
	Encode(src []byte) ([]byte, error)
	// Decode returns the original bytes of a buffer produced by Encode.
	Decode(src []byte) ([]byte, error)
}
