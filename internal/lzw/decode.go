package lzw

import (
	"errors"
	"fmt"
)

// ErrCorruptStream is returned when a code cannot have been produced by
// Encode at its position in the stream.
var ErrCorruptStream = errors.New("lzw: corrupt code stream")

// CorruptCodeError describes the first invalid code found by Decode.
type CorruptCodeError struct {
	// Index is the position of the code in the stream.
	Index int
	// Code is the offending value.
	Code int
	// Max is the largest code that was valid at Index.
	Max int
}

func (e *CorruptCodeError) Error() string {
	return fmt.Sprintf("lzw: corrupt code stream: code %d at index %d outside [0, %d]",
		e.Code, e.Index, e.Max)
}

// Is reports whether target is ErrCorruptStream.
func (e *CorruptCodeError) Is(target error) bool {
	return target == ErrCorruptStream
}

// Decode expands a code stream produced by Encode back into bytes.
// An empty stream yields empty output. On error no output is returned.
func Decode(codes []int) ([]byte, error) {
	if len(codes) == 0 {
		return []byte{}, nil
	}

	dict := make([][]byte, FirstCode, FirstCode+len(codes))
	for b := range dict {
		dict[b] = []byte{byte(b)}
	}

	first := codes[0]
	if first < 0 || first >= FirstCode {
		// Nothing has been learned before the first code.
		return nil, &CorruptCodeError{Index: 0, Code: first, Max: FirstCode - 1}
	}

	out := make([]byte, 0, len(codes)*2)
	previous := dict[first]
	out = append(out, previous...)

	for i, code := range codes[1:] {
		next := len(dict)

		var resolved []byte
		switch {
		case code == next:
			// The encoder learned this entry on the step that emitted the
			// previous code, from bytes the decoder has not resolved yet.
			resolved = make([]byte, len(previous)+1)
			copy(resolved, previous)
			resolved[len(previous)] = previous[0]
		case code >= 0 && code < next:
			resolved = dict[code]
		default:
			return nil, &CorruptCodeError{Index: i + 1, Code: code, Max: next}
		}

		out = append(out, resolved...)

		entry := make([]byte, len(previous)+1)
		copy(entry, previous)
		entry[len(previous)] = resolved[0]
		dict = append(dict, entry)

		previous = resolved
	}

	return out, nil
}
