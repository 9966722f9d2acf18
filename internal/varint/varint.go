// Package varint packs sequences of non-negative integers into bytes using
// 7-bit groups, least significant group first, with the high bit of each
// byte set while more groups follow.
//
// The layout is the same as encoding/binary's unsigned varint, which this
// package builds on.
package varint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNegative is returned when encoding a negative value.
	ErrNegative = errors.New("varint: negative value")

	// ErrOverflow is returned when a group sequence does not fit in an int.
	ErrOverflow = errors.New("varint: value overflows int")

	// ErrTruncated is returned when the input ends inside a group sequence.
	ErrTruncated = errors.New("varint: truncated input")
)

// Encode packs values in order. A zero value still takes one byte.
func Encode(values []int) ([]byte, error) {
	dst := make([]byte, 0, len(values)*2)
	for i, v := range values {
		var err error
		if dst, err = Append(dst, v); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
	}
	return dst, nil
}

// Append appends the packed form of v to dst.
func Append(dst []byte, v int) ([]byte, error) {
	if v < 0 {
		return dst, ErrNegative
	}
	return binary.AppendUvarint(dst, uint64(v)), nil
}

// Decode unpacks every value in data.
func Decode(data []byte) ([]int, error) {
	values := make([]int, 0, len(data))
	for offset := 0; offset < len(data); {
		v, n := binary.Uvarint(data[offset:])
		switch {
		case n == 0:
			return nil, fmt.Errorf("at byte %d: %w", offset, ErrTruncated)
		case n < 0, v > math.MaxInt:
			return nil, fmt.Errorf("at byte %d: %w", offset, ErrOverflow)
		}
		values = append(values, int(v))
		offset += n
	}
	return values, nil
}

// Len returns the number of bytes Append uses for v.
func Len(v int) int {
	n := 1
	for u := uint64(v); u >= 0x80; u >>= 7 {
		n++
	}
	return n
}
