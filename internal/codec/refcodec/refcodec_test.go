package refcodec

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

func TestNames(t *testing.T) {
	want := []string{"brotli", "gzip", "lz4", "none", "snappy", "zstd"}
	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("lzma")
	if !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("New(lzma) error = %v, want ErrUnknownCodec", err)
	}
}

func TestCodecs_Extension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"none", ""},
		{"gzip", "gz"},
		{"lz4", "lz4"},
		{"brotli", "br"},
		{"snappy", "sz"},
		{"zstd", "zst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.name)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := c.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
			if got := c.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":      {},
		"short":      []byte("Hello, World!"),
		"repetitive": bytes.Repeat([]byte("ABCDEFGHIJ"), 10000),
	}

	codecs, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	for _, c := range codecs {
		for label, original := range inputs {
			t.Run(c.Name()+"/"+label, func(t *testing.T) {
				compressed, err := c.Encode(original)
				if err != nil {
					t.Fatalf("Encode() error = %v", err)
				}
				decompressed, err := c.Decode(compressed)
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				if !bytes.Equal(decompressed, original) {
					t.Errorf("round trip mismatch: got %d bytes, want %d", len(decompressed), len(original))
				}
			})
		}
	}
}

func TestCodecs_CompressRepetitiveData(t *testing.T) {
	original := bytes.Repeat([]byte("ABCDEFGHIJ"), 10000)
	for _, name := range []string{"gzip", "lz4", "brotli", "snappy", "zstd"} {
		c, err := New(name)
		if err != nil {
			t.Fatalf("New(%s) error = %v", name, err)
		}
		compressed, err := c.Encode(original)
		if err != nil {
			t.Fatalf("%s Encode() error = %v", name, err)
		}
		if len(compressed) >= len(original) {
			t.Errorf("%s: expected compression, got %d bytes from %d", name, len(compressed), len(original))
		}
	}
}

func TestCodecs_DecodeInvalidData(t *testing.T) {
	for _, name := range []string{"gzip", "zstd"} {
		c, err := New(name)
		if err != nil {
			t.Fatalf("New(%s) error = %v", name, err)
		}
		if _, err := c.Decode([]byte("definitely not compressed")); err == nil {
			t.Errorf("%s Decode() expected error for invalid data, got nil", name)
		}
	}
}
