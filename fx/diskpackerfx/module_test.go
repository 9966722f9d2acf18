package diskpackerfx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/discochess/lzwpack"
	"github.com/discochess/lzwpack/internal/archive"
)

func TestModule(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("abababababab"), 0644); err != nil {
		t.Fatal(err)
	}

	var (
		packer   *lzwpack.Packer
		archiver *archive.Archiver
	)
	app := fxtest.New(t,
		fx.Supply(Config{Root: dir, Suffix: ".lzw"}),
		fx.Supply(zap.NewNop()),
		Module,
		fx.Populate(&packer, &archiver),
	)
	app.RequireStart()
	defer app.RequireStop()

	ctx := context.Background()
	report, err := packer.CompressFile(ctx, "a.txt")
	if err != nil {
		t.Fatalf("CompressFile() error = %v", err)
	}
	if report.Output != "a.txt.lzw" {
		t.Errorf("Output = %q, want a.txt.lzw", report.Output)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt.lzw")); err != nil {
		t.Errorf("compressed file not on disk: %v", err)
	}

	m, err := archiver.Archive(ctx)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if len(m.Entries) != 1 || m.Entries[0].Name != "a.txt" {
		t.Errorf("manifest entries = %+v", m.Entries)
	}
}

func TestModule_LogsStoreRoot(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zapcore.InfoLevel)

	var packer *lzwpack.Packer
	app := fxtest.New(t,
		fx.Supply(Config{Root: dir}),
		fx.Supply(zap.New(core)),
		Module,
		fx.Populate(&packer),
	)
	app.RequireStart()
	defer app.RequireStop()

	entries := logs.FilterMessage("opened disk store").All()
	if len(entries) != 1 {
		t.Fatalf("got %d store log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["root"] != dir {
		t.Errorf("root = %v, want %s", fields["root"], dir)
	}
	if fields["cacheSize"] != int64(DefaultCacheSize) {
		t.Errorf("cacheSize = %v, want %d", fields["cacheSize"], DefaultCacheSize)
	}
}
