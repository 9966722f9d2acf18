package lzwpack

import (
	"errors"
	"fmt"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrSourceNotFound indicates the input artifact does not exist.
	ErrSourceNotFound = errors.New("lzwpack: source not found")

	// ErrCorruptStream indicates compressed input that cannot be decoded:
	// a malformed varint or a code the decoder has not learned yet.
	ErrCorruptStream = errors.New("lzwpack: corrupt stream")

	// ErrEmptyInput indicates an empty buffer was rejected.
	// It is only returned when the Packer is built with WithRejectEmpty(true).
	ErrEmptyInput = errors.New("lzwpack: empty input")

	// ErrBadSuffix indicates a compressed artifact name without the
	// configured suffix, or an empty suffix.
	ErrBadSuffix = errors.New("lzwpack: missing compressed suffix")

	// ErrClosed indicates the packer has been closed.
	ErrClosed = errors.New("lzwpack: packer closed")

	// ErrNoStore indicates a file operation on a packer without a store.
	ErrNoStore = errors.New("lzwpack: no store provided")
)

// Error records the operation and artifact that failed.
type Error struct {
	// Op is "compress" or "decompress".
	Op string
	// Name is the artifact name, empty for in-memory buffers.
	Name string
	Err  error
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
