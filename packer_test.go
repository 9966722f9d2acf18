package lzwpack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/discochess/lzwpack/internal/lzw"
	"github.com/discochess/lzwpack/internal/stats"
	"github.com/discochess/lzwpack/internal/store/memstore"
	"github.com/discochess/lzwpack/internal/varint"
)

func newPacker(t *testing.T, opts ...Option) *Packer {
	t.Helper()
	p, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestNew_Defaults(t *testing.T) {
	p := newPacker(t)
	if p.Suffix() != DefaultSuffix {
		t.Errorf("Suffix() = %q, want %q", p.Suffix(), DefaultSuffix)
	}
	if p.Store() != nil {
		t.Error("Store() should be nil without WithStore")
	}
}

func TestNew_EmptySuffix(t *testing.T) {
	_, err := New(WithSuffix(""))
	if !errors.Is(err, ErrBadSuffix) {
		t.Errorf("New() error = %v, want ErrBadSuffix", err)
	}
}

func TestPacker_CompressGolden(t *testing.T) {
	p := newPacker(t)
	got, err := p.Compress(context.Background(), []byte("kkkkkkkkkrrrrrmmmmmm"))
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	want, err := varint.Encode([]int{107, 256, 257, 257, 114, 260, 260, 109, 263, 264})
	if err != nil {
		t.Fatalf("varint.Encode() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Compress() = %v, want %v", got, want)
	}
}

func TestPacker_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"single byte", []byte("x")},
		{"text", []byte("TOBEORNOTTOBEORTOBEORNOT")},
		{"self reference", []byte("ABABABABABABABAB")},
		{"binary", []byte{0, 255, 0, 255, 0, 0, 0, 1, 2, 3}},
		{"large", bytes.Repeat([]byte("the quick brown fox "), 5000)},
	}

	p := newPacker(t)
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed, err := p.Compress(ctx, tt.input)
			if err != nil {
				t.Fatalf("Compress() error = %v", err)
			}
			got, err := p.Decompress(ctx, packed)
			if err != nil {
				t.Fatalf("Decompress() error = %v", err)
			}
			if !bytes.Equal(got, tt.input) {
				t.Errorf("round trip mismatch for %q", tt.name)
			}
		})
	}
}

func TestPacker_Empty(t *testing.T) {
	ctx := context.Background()
	p := newPacker(t)

	packed, err := p.Compress(ctx, nil)
	if err != nil || len(packed) != 0 {
		t.Errorf("Compress(empty) = %v, %v, want empty, nil", packed, err)
	}
	out, err := p.Decompress(ctx, nil)
	if err != nil || len(out) != 0 {
		t.Errorf("Decompress(empty) = %v, %v, want empty, nil", out, err)
	}

	strict := newPacker(t, WithRejectEmpty(true))
	if _, err := strict.Compress(ctx, []byte{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Compress(empty) error = %v, want ErrEmptyInput", err)
	}
	if _, err := strict.Decompress(ctx, nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Decompress(empty) error = %v, want ErrEmptyInput", err)
	}
}

func TestPacker_DecompressCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		cause error
	}{
		{"truncated varint", []byte{65, 0x80}, varint.ErrTruncated},
		{"overflowing varint", bytes.Repeat([]byte{0xff}, 11), varint.ErrOverflow},
		{"code beyond next", []byte{65, 0xac, 0x02}, lzw.ErrCorruptStream}, // [65, 300]
		{"learned first code", []byte{0x80, 0x02}, lzw.ErrCorruptStream}, // [256]
	}

	p := newPacker(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Decompress(context.Background(), tt.input)
			if !errors.Is(err, ErrCorruptStream) {
				t.Fatalf("Decompress() error = %v, want ErrCorruptStream", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("Decompress() error = %v, want cause %v", err, tt.cause)
			}
			if out != nil {
				t.Errorf("Decompress() returned %d bytes on error", len(out))
			}
		})
	}
}

func TestPacker_DecompressCorruptCode(t *testing.T) {
	p := newPacker(t)
	_, err := p.Decompress(context.Background(), []byte{65, 0xac, 0x02})

	var codeErr *lzw.CorruptCodeError
	if !errors.As(err, &codeErr) {
		t.Fatalf("Decompress() error = %v, want *lzw.CorruptCodeError", err)
	}
	if codeErr.Index != 1 || codeErr.Code != 300 || codeErr.Max != 256 {
		t.Errorf("CorruptCodeError = %+v, want index 1, code 300, max 256", codeErr)
	}
}

func TestPacker_CompressFile(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	input := []byte("kkkkkkkkkrrrrrmmmmmm")
	if err := mem.Write(ctx, "notes.txt", input); err != nil {
		t.Fatal(err)
	}

	p := newPacker(t, WithStore(mem))
	report, err := p.CompressFile(ctx, "notes.txt")
	if err != nil {
		t.Fatalf("CompressFile() error = %v", err)
	}

	if report.Output != "notes.txt.zipped" {
		t.Errorf("Output = %q, want notes.txt.zipped", report.Output)
	}
	if report.InputBytes != 20 || report.OutputBytes != 17 {
		t.Errorf("sizes = %d -> %d, want 20 -> 17", report.InputBytes, report.OutputBytes)
	}
	if report.Codes != 10 || report.DictionarySize != 265 {
		t.Errorf("codes = %d, dictionary = %d, want 10, 265", report.Codes, report.DictionarySize)
	}
	if want := Ratio(20, 17); report.Ratio != want {
		t.Errorf("Ratio = %v, want %v", report.Ratio, want)
	}

	packed, err := mem.Read(ctx, "notes.txt.zipped")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(packed) != report.OutputBytes {
		t.Errorf("stored %d bytes, report says %d", len(packed), report.OutputBytes)
	}
}

func TestPacker_DecompressFile(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	input := bytes.Repeat([]byte("abcabcabd"), 100)
	if err := mem.Write(ctx, "dir/data.bin", input); err != nil {
		t.Fatal(err)
	}

	p := newPacker(t, WithStore(mem))
	if _, err := p.CompressFile(ctx, "dir/data.bin"); err != nil {
		t.Fatalf("CompressFile() error = %v", err)
	}
	mem.Delete("dir/data.bin")

	report, err := p.DecompressFile(ctx, "dir/data.bin.zipped")
	if err != nil {
		t.Fatalf("DecompressFile() error = %v", err)
	}
	if report.Output != "dir/data.bin" {
		t.Errorf("Output = %q, want dir/data.bin", report.Output)
	}

	got, err := mem.Read(ctx, "dir/data.bin")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, input) {
		t.Error("restored artifact differs from the original")
	}
}

func TestPacker_CustomSuffix(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	if err := mem.Write(ctx, "a", []byte("aaaa")); err != nil {
		t.Fatal(err)
	}

	p := newPacker(t, WithStore(mem), WithSuffix(".lzw"))
	report, err := p.CompressFile(ctx, "a")
	if err != nil {
		t.Fatalf("CompressFile() error = %v", err)
	}
	if report.Output != "a.lzw" {
		t.Errorf("Output = %q, want a.lzw", report.Output)
	}
	if _, err := p.DecompressFile(ctx, "a.lzw"); err != nil {
		t.Errorf("DecompressFile() error = %v", err)
	}
}

func TestPacker_FileErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing source writes nothing", func(t *testing.T) {
		mem := memstore.New()
		p := newPacker(t, WithStore(mem))
		_, err := p.CompressFile(ctx, "missing.txt")
		if !errors.Is(err, ErrSourceNotFound) {
			t.Fatalf("CompressFile() error = %v, want ErrSourceNotFound", err)
		}
		var opErr *Error
		if !errors.As(err, &opErr) || opErr.Op != OpCompress || opErr.Name != "missing.txt" {
			t.Errorf("error = %#v, want *Error for compress missing.txt", err)
		}
		if names, _ := mem.List(ctx); len(names) != 0 {
			t.Errorf("store holds %v, want nothing", names)
		}
	})

	t.Run("bad suffix", func(t *testing.T) {
		p := newPacker(t, WithStore(memstore.New()))
		for _, name := range []string{"notes.txt", ".zipped", "dir/.zipped"} {
			if _, err := p.DecompressFile(ctx, name); !errors.Is(err, ErrBadSuffix) {
				t.Errorf("DecompressFile(%q) error = %v, want ErrBadSuffix", name, err)
			}
		}
	})

	t.Run("corrupt artifact writes nothing", func(t *testing.T) {
		mem := memstore.New()
		if err := mem.Write(ctx, "x.zipped", []byte{0x80, 0x02}); err != nil {
			t.Fatal(err)
		}
		p := newPacker(t, WithStore(mem))
		if _, err := p.DecompressFile(ctx, "x.zipped"); !errors.Is(err, ErrCorruptStream) {
			t.Fatalf("DecompressFile() error = %v, want ErrCorruptStream", err)
		}
		if names, _ := mem.List(ctx); !slices.Equal(names, []string{"x.zipped"}) {
			t.Errorf("store holds %v, want [x.zipped]", names)
		}
	})

	t.Run("no store", func(t *testing.T) {
		p := newPacker(t)
		if _, err := p.CompressFile(ctx, "a"); !errors.Is(err, ErrNoStore) {
			t.Errorf("CompressFile() error = %v, want ErrNoStore", err)
		}
	})
}

func TestPacker_Close(t *testing.T) {
	p := newPacker(t, WithStore(memstore.New()))

	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := p.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
	if _, err := p.Compress(context.Background(), []byte("a")); !errors.Is(err, ErrClosed) {
		t.Errorf("Compress() after Close error = %v, want ErrClosed", err)
	}
	if _, err := p.CompressFile(context.Background(), "a"); !errors.Is(err, ErrClosed) {
		t.Errorf("CompressFile() after Close error = %v, want ErrClosed", err)
	}
}

func TestPacker_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPacker(t)
	if _, err := p.Compress(ctx, []byte("abc")); !errors.Is(err, context.Canceled) {
		t.Errorf("Compress() error = %v, want context.Canceled", err)
	}
}

func TestPacker_Concurrent(t *testing.T) {
	p := newPacker(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := range 8 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			input := bytes.Repeat([]byte(fmt.Sprintf("worker-%d;", id)), 500)
			packed, err := p.Compress(ctx, input)
			if err != nil {
				errs <- err
				return
			}
			got, err := p.Decompress(ctx, packed)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(got, input) {
				errs <- fmt.Errorf("worker %d: round trip mismatch", id)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		in, out int
		want    float64
	}{
		{0, 0, 0},
		{10, 0, 0},
		{20, 10, 2},
		{10, 20, 0.5},
	}
	for _, tt := range tests {
		if got := Ratio(tt.in, tt.out); got != tt.want {
			t.Errorf("Ratio(%d, %d) = %v, want %v", tt.in, tt.out, got, tt.want)
		}
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Op: OpCompress, Err: ErrEmptyInput}, "compress: lzwpack: empty input"},
		{&Error{Op: OpDecompress, Name: "a.zipped", Err: ErrSourceNotFound}, "decompress a.zipped: lzwpack: source not found"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

// recordingCollector captures metric updates.
type recordingCollector struct {
	mu         sync.Mutex
	counters   map[string]int64
	gauges     map[string]int64
	histograms map[string][]float64
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{
		counters:   make(map[string]int64),
		gauges:     make(map[string]int64),
		histograms: make(map[string][]float64),
	}
}

func (c *recordingCollector) IncCounter(name string, delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name] += delta
}

func (c *recordingCollector) SetGauge(name string, value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gauges[name] = value
}

func (c *recordingCollector) ObserveHistogram(name string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.histograms[name] = append(c.histograms[name], value)
}

func TestPacker_Stats(t *testing.T) {
	rec := newRecordingCollector()
	p := newPacker(t, WithStats(rec))
	ctx := context.Background()

	packed, err := p.Compress(ctx, []byte("kkkkkkkkkrrrrrmmmmmm"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Decompress(ctx, packed); err != nil {
		t.Fatal(err)
	}
	_, _ = p.Decompress(ctx, []byte{0x80, 0x02})

	checks := map[string]int64{
		stats.MetricCompress:       1,
		stats.MetricDecompress:     1,
		stats.MetricBytesIn:        20 + 17,
		stats.MetricBytesOut:       17 + 20,
		stats.MetricCodes:          20,
		stats.MetricCorruptStreams: 1,
	}
	for name, want := range checks {
		if got := rec.counters[name]; got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}
	if got := rec.gauges[stats.MetricDictionarySize]; got != 265 {
		t.Errorf("%s = %d, want 265", stats.MetricDictionarySize, got)
	}
	if got := rec.histograms[stats.MetricRatio]; len(got) != 1 {
		t.Errorf("%s observations = %v, want one", stats.MetricRatio, got)
	}
}

func TestWithDataDir(t *testing.T) {
	dir := t.TempDir()
	text := []byte("TOBEORNOTTOBEORTOBEORNOT#")
	if err := os.WriteFile(filepath.Join(dir, "hamlet.txt"), text, 0644); err != nil {
		t.Fatal(err)
	}

	opt, err := WithDataDir(dir)
	if err != nil {
		t.Fatalf("WithDataDir() error = %v", err)
	}
	p := newPacker(t, opt)
	defer p.Close()

	ctx := context.Background()
	report, err := p.CompressFile(ctx, "hamlet.txt")
	if err != nil {
		t.Fatalf("CompressFile() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, report.Output)); err != nil {
		t.Errorf("compressed file not on disk: %v", err)
	}

	if _, err := WithDataDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("WithDataDir() on a missing directory should return error")
	}
}
