package main

import (
	"errors"
	"testing"

	"github.com/discochess/lzwpack/internal/codec/refcodec"
)

func TestSelectCodecs(t *testing.T) {
	all, err := selectCodecs(nil)
	if err != nil {
		t.Fatalf("selectCodecs(nil) error = %v", err)
	}
	if len(all) != len(refcodec.Names())+1 || all[0].Name() != "lzw" {
		t.Errorf("selectCodecs(nil) returned %d codecs, first %q", len(all), all[0].Name())
	}

	some, err := selectCodecs([]string{"gzip", "lzw"})
	if err != nil {
		t.Fatalf("selectCodecs() error = %v", err)
	}
	if len(some) != 2 || some[0].Name() != "gzip" || some[1].Name() != "lzw" {
		t.Errorf("selectCodecs() = %v", some)
	}

	if _, err := selectCodecs([]string{"rar"}); !errors.Is(err, refcodec.ErrUnknownCodec) {
		t.Errorf("selectCodecs(rar) error = %v, want ErrUnknownCodec", err)
	}
}
