// Package refcodec provides general-purpose reference codecs that LZW
// output is measured against.
package refcodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"

	"github.com/discochess/lzwpack/internal/codec"
)

// ErrUnknownCodec is returned by New for an unregistered name.
var ErrUnknownCodec = errors.New("refcodec: unknown codec")

var registry = map[string]func() (codec.Codec, error){
	"none": func() (codec.Codec, error) {
		return &streamCodec{
			name:      "none",
			newWriter: func(w io.Writer) (io.WriteCloser, error) { return nopWriteCloser{w}, nil },
			newReader: func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(r), nil },
		}, nil
	},
	"gzip": func() (codec.Codec, error) {
		return &streamCodec{
			name: "gzip",
			ext:  "gz",
			newWriter: func(w io.Writer) (io.WriteCloser, error) {
				return gzip.NewWriterLevel(w, gzip.BestCompression)
			},
			newReader: func(r io.Reader) (io.ReadCloser, error) { return gzip.NewReader(r) },
		}, nil
	},
	"lz4": func() (codec.Codec, error) {
		return &streamCodec{
			name:      "lz4",
			ext:       "lz4",
			newWriter: func(w io.Writer) (io.WriteCloser, error) { return lz4.NewWriter(w), nil },
			newReader: func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(lz4.NewReader(r)), nil },
		}, nil
	},
	"brotli": func() (codec.Codec, error) {
		return &streamCodec{
			name: "brotli",
			ext:  "br",
			newWriter: func(w io.Writer) (io.WriteCloser, error) {
				return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
			},
			newReader: func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(brotli.NewReader(r)), nil },
		}, nil
	},
	"snappy": func() (codec.Codec, error) { return snappyCodec{}, nil },
	"zstd": func() (codec.Codec, error) {
		c, err := newZstd()
		if err != nil {
			return nil, err
		}
		return c, nil
	},
}

// Names returns the registered codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the codec registered under name.
func New(name string) (codec.Codec, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return ctor()
}

// All returns every registered codec in Names order.
func All() ([]codec.Codec, error) {
	names := Names()
	codecs := make([]codec.Codec, 0, len(names))
	for _, name := range names {
		c, err := New(name)
		if err != nil {
			return nil, fmt.Errorf("creating %s codec: %w", name, err)
		}
		codecs = append(codecs, c)
	}
	return codecs, nil
}

// Compile-time check that streamCodec implements codec.Codec.
var _ codec.Codec = (*streamCodec)(nil)

// streamCodec adapts a streaming reader/writer pair to whole buffers.
type streamCodec struct {
	name      string
	ext       string
	newWriter func(io.Writer) (io.WriteCloser, error)
	newReader func(io.Reader) (io.ReadCloser, error)
}

func (c *streamCodec) Name() string      { return c.name }
func (c *streamCodec) Extension() string { return c.ext }

func (c *streamCodec) Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := c.newWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating %s writer: %w", c.name, err)
	}
	if _, err := w.Write(src); err != nil {
		w.Close()
		return nil, fmt.Errorf("%s compress: %w", c.name, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s flush: %w", c.name, err)
	}
	return buf.Bytes(), nil
}

func (c *streamCodec) Decode(src []byte) ([]byte, error) {
	r, err := c.newReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("creating %s reader: %w", c.name, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s decompress: %w", c.name, err)
	}
	return out, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
