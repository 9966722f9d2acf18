// Package lzwcodec provides the LZW codec: an LZW code stream packed with
// varints. The output is a bare code stream with no header or checksum.
package lzwcodec

import (
	"fmt"

	"github.com/discochess/lzwpack/internal/codec"
	"github.com/discochess/lzwpack/internal/lzw"
	"github.com/discochess/lzwpack/internal/varint"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements LZW compression.
type Codec struct{}

// New returns a new LZW codec.
func New() *Codec {
	return &Codec{}
}

// Stats describes one code stream.
type Stats struct {
	// Codes is the number of codes in the stream.
	Codes int
	// Literals is the number of codes below 256.
	Literals int
	// MaxCode is the largest code, or -1 for an empty stream.
	MaxCode int
	// DictionarySize is the number of codebook entries after the last code.
	DictionarySize int
	// PackedBytes is the size of the varint-packed stream.
	PackedBytes int
}

// Learned returns the number of codes that stand for multi-byte sequences.
func (s Stats) Learned() int {
	return s.Codes - s.Literals
}

// Name returns "lzw".
func (c *Codec) Name() string {
	return "lzw"
}

// Extension returns "zipped".
func (c *Codec) Extension() string {
	return "zipped"
}

// Encode compresses src.
func (c *Codec) Encode(src []byte) ([]byte, error) {
	out, _, err := c.EncodeStats(src)
	return out, err
}

// EncodeStats compresses src and describes the resulting code stream.
func (c *Codec) EncodeStats(src []byte) ([]byte, Stats, error) {
	codes := lzw.Encode(src)
	packed, err := varint.Encode(codes)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("packing codes: %w", err)
	}
	st := describe(codes)
	st.PackedBytes = len(packed)
	return packed, st, nil
}

// Decode decompresses src.
func (c *Codec) Decode(src []byte) ([]byte, error) {
	out, _, err := c.DecodeStats(src)
	return out, err
}

// DecodeStats decompresses src and describes the code stream it held.
func (c *Codec) DecodeStats(src []byte) ([]byte, Stats, error) {
	codes, err := varint.Decode(src)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("unpacking codes: %w", err)
	}
	out, err := lzw.Decode(codes)
	if err != nil {
		return nil, Stats{}, err
	}
	st := describe(codes)
	st.PackedBytes = len(src)
	return out, st, nil
}

// Inspect unpacks src and describes its code stream without expanding it.
func (c *Codec) Inspect(src []byte) ([]int, Stats, error) {
	codes, err := varint.Decode(src)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("unpacking codes: %w", err)
	}
	st := describe(codes)
	st.PackedBytes = len(src)
	return codes, st, nil
}

func describe(codes []int) Stats {
	st := Stats{
		Codes:          len(codes),
		MaxCode:        -1,
		DictionarySize: lzw.DictionarySize(codes),
	}
	for _, code := range codes {
		if code < lzw.FirstCode {
			st.Literals++
		}
		st.MaxCode = max(st.MaxCode, code)
	}
	return st
}
