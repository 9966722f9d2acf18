// Package lzwpack compresses byte buffers and stored artifacts with LZW.
//
// A buffer is turned into a stream of dictionary codes (0-255 stand for
// literal bytes, 256 and up for sequences learned while encoding) and the
// codes are packed as unsigned varints. The dictionary is never
// transmitted: the decoder rebuilds it from the codes it reads.
//
// Example usage:
//
//	packer, err := lzwpack.New(lzwpack.WithStore(st))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer packer.Close()
//
//	report, err := packer.CompressFile(ctx, "notes.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Compression ratio: %.2f\n", report.Ratio)
package lzwpack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/lzwpack/internal/codec/lzwcodec"
	"github.com/discochess/lzwpack/internal/lzw"
	"github.com/discochess/lzwpack/internal/stats"
	"github.com/discochess/lzwpack/internal/store"
	"github.com/discochess/lzwpack/internal/varint"
)

// Operation names used in Error and Report.
const (
	OpCompress   = "compress"
	OpDecompress = "decompress"
)

// Packer compresses and decompresses buffers and stored artifacts.
// A Packer holds no codec state and is safe for concurrent use by multiple
// goroutines.
type Packer struct {
	store       store.Store
	codec       *lzwcodec.Codec
	stats       stats.Collector
	logger      *zap.Logger
	suffix      string
	rejectEmpty bool
	closed      atomic.Bool
}

// Report describes one file operation.
type Report struct {
	Op     string
	Input  string
	Output string

	InputBytes  int
	OutputBytes int

	// Codes is the length of the code stream.
	Codes int
	// DictionarySize is the number of dictionary entries at the end.
	DictionarySize int
	// Ratio is uncompressed size over compressed size.
	Ratio float64

	Elapsed time.Duration
}

// New creates a new Packer with the given options.
// If no options are provided, sensible defaults are used; a Packer without
// a store supports only the in-memory operations.
func New(opts ...Option) (*Packer, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.suffix == "" {
		return nil, fmt.Errorf("%w: suffix must not be empty", ErrBadSuffix)
	}

	p := &Packer{
		store:       cfg.store,
		codec:       lzwcodec.New(),
		stats:       cfg.stats,
		logger:      cfg.logger,
		suffix:      cfg.suffix,
		rejectEmpty: cfg.rejectEmpty,
	}

	p.logger.Debug("packer initialized",
		zap.String("suffix", p.suffix),
		zap.Bool("rejectEmpty", p.rejectEmpty),
		zap.Bool("hasStore", p.store != nil),
	)

	return p, nil
}

// Compress returns the varint-packed LZW code stream for src.
// An empty src yields an empty stream unless WithRejectEmpty is set.
func (p *Packer) Compress(ctx context.Context, src []byte) ([]byte, error) {
	out, _, err := p.compress(ctx, "", src)
	return out, err
}

// Decompress restores the bytes of a stream produced by Compress.
// A malformed stream fails with an error matching ErrCorruptStream and no
// output is returned.
func (p *Packer) Decompress(ctx context.Context, src []byte) ([]byte, error) {
	out, _, err := p.decompress(ctx, "", src)
	return out, err
}

// CompressFile reads name from the store and writes its compressed form to
// name plus the suffix. Nothing is written when any step fails.
func (p *Packer) CompressFile(ctx context.Context, name string) (*Report, error) {
	start := time.Now()

	src, err := p.read(ctx, OpCompress, name)
	if err != nil {
		return nil, err
	}

	out, st, err := p.compress(ctx, name, src)
	if err != nil {
		return nil, err
	}

	target := name + p.suffix
	if err := p.store.Write(ctx, target, out); err != nil {
		return nil, &Error{Op: OpCompress, Name: name, Err: fmt.Errorf("writing %s: %w", target, err)}
	}

	return &Report{
		Op:             OpCompress,
		Input:          name,
		Output:         target,
		InputBytes:     len(src),
		OutputBytes:    len(out),
		Codes:          st.Codes,
		DictionarySize: st.DictionarySize,
		Ratio:          Ratio(len(src), len(out)),
		Elapsed:        time.Since(start),
	}, nil
}

// DecompressFile reads a compressed artifact from the store and writes the
// restored bytes under name with the suffix removed. The name must end in
// the suffix.
func (p *Packer) DecompressFile(ctx context.Context, name string) (*Report, error) {
	start := time.Now()

	target, ok := p.TrimSuffix(name)
	if !ok {
		return nil, &Error{Op: OpDecompress, Name: name, Err: fmt.Errorf("%w %q", ErrBadSuffix, p.suffix)}
	}

	src, err := p.read(ctx, OpDecompress, name)
	if err != nil {
		return nil, err
	}

	out, st, err := p.decompress(ctx, name, src)
	if err != nil {
		return nil, err
	}

	if err := p.store.Write(ctx, target, out); err != nil {
		return nil, &Error{Op: OpDecompress, Name: name, Err: fmt.Errorf("writing %s: %w", target, err)}
	}

	return &Report{
		Op:             OpDecompress,
		Input:          name,
		Output:         target,
		InputBytes:     len(src),
		OutputBytes:    len(out),
		Codes:          st.Codes,
		DictionarySize: st.DictionarySize,
		Ratio:          Ratio(len(out), len(src)),
		Elapsed:        time.Since(start),
	}, nil
}

// TrimSuffix returns name without the compressed suffix. It reports false
// when name does not end in the suffix or is nothing but the suffix.
func (p *Packer) TrimSuffix(name string) (string, bool) {
	base, ok := strings.CutSuffix(name, p.suffix)
	if !ok || base == "" || strings.HasSuffix(base, "/") {
		return "", false
	}
	return base, true
}

// Suffix returns the suffix appended to compressed artifact names.
func (p *Packer) Suffix() string {
	return p.suffix
}

// Store returns the storage backend used by this packer, or nil.
func (p *Packer) Store() store.Store {
	return p.store
}

// Close releases all resources associated with the packer.
// After Close, the packer should not be used.
func (p *Packer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if p.store != nil {
		if err := p.store.Close(); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
	}

	return nil
}

// Ratio returns inputLen/outputLen, or 0 when outputLen is 0.
func Ratio(inputLen, outputLen int) float64 {
	if outputLen == 0 {
		return 0
	}
	return float64(inputLen) / float64(outputLen)
}

// read fetches an artifact, mapping a missing one to ErrSourceNotFound.
func (p *Packer) read(ctx context.Context, op, name string) ([]byte, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	if p.store == nil {
		return nil, ErrNoStore
	}

	data, err := p.store.Read(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &Error{Op: op, Name: name, Err: ErrSourceNotFound}
		}
		return nil, &Error{Op: op, Name: name, Err: err}
	}
	return data, nil
}

func (p *Packer) compress(ctx context.Context, name string, src []byte) ([]byte, lzwcodec.Stats, error) {
	if err := p.check(ctx, OpCompress, name, src); err != nil {
		return nil, lzwcodec.Stats{}, err
	}

	out, st, err := p.codec.EncodeStats(src)
	if err != nil {
		return nil, lzwcodec.Stats{}, &Error{Op: OpCompress, Name: name, Err: err}
	}

	ratio := Ratio(len(src), len(out))
	p.stats.IncCounter(stats.MetricCompress, 1)
	p.stats.IncCounter(stats.MetricBytesIn, int64(len(src)))
	p.stats.IncCounter(stats.MetricBytesOut, int64(len(out)))
	p.stats.IncCounter(stats.MetricCodes, int64(st.Codes))
	p.stats.SetGauge(stats.MetricDictionarySize, int64(st.DictionarySize))
	if len(out) > 0 {
		p.stats.ObserveHistogram(stats.MetricRatio, ratio)
	}

	p.logger.Debug("compressed",
		zap.String("name", name),
		zap.Int("inputBytes", len(src)),
		zap.Int("outputBytes", len(out)),
		zap.Int("codes", st.Codes),
		zap.Float64("ratio", ratio),
	)
	return out, st, nil
}

func (p *Packer) decompress(ctx context.Context, name string, src []byte) ([]byte, lzwcodec.Stats, error) {
	if err := p.check(ctx, OpDecompress, name, src); err != nil {
		return nil, lzwcodec.Stats{}, err
	}

	out, st, err := p.codec.DecodeStats(src)
	if err != nil {
		if isCorrupt(err) {
			p.stats.IncCounter(stats.MetricCorruptStreams, 1)
			p.logger.Debug("corrupt stream", zap.String("name", name), zap.Error(err))
			err = fmt.Errorf("%w: %w", ErrCorruptStream, err)
		}
		return nil, lzwcodec.Stats{}, &Error{Op: OpDecompress, Name: name, Err: err}
	}

	p.stats.IncCounter(stats.MetricDecompress, 1)
	p.stats.IncCounter(stats.MetricBytesIn, int64(len(src)))
	p.stats.IncCounter(stats.MetricBytesOut, int64(len(out)))
	p.stats.IncCounter(stats.MetricCodes, int64(st.Codes))
	p.stats.SetGauge(stats.MetricDictionarySize, int64(st.DictionarySize))

	p.logger.Debug("decompressed",
		zap.String("name", name),
		zap.Int("inputBytes", len(src)),
		zap.Int("outputBytes", len(out)),
		zap.Int("codes", st.Codes),
		zap.Float64("ratio", Ratio(len(out), len(src))),
	)
	return out, st, nil
}

// check runs the preconditions shared by both directions.
func (p *Packer) check(ctx context.Context, op, name string, src []byte) error {
	if p.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return &Error{Op: op, Name: name, Err: err}
	}
	if len(src) == 0 && p.rejectEmpty {
		return &Error{Op: op, Name: name, Err: ErrEmptyInput}
	}
	return nil
}

func isCorrupt(err error) bool {
	return errors.Is(err, lzw.ErrCorruptStream) ||
		errors.Is(err, varint.ErrTruncated) ||
		errors.Is(err, varint.ErrOverflow)
}
