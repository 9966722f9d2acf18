// Package archive compresses every artifact of a store in one run and
// records the result in a manifest that can be verified later.
package archive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/lzwpack/internal/store"
)

// Progress phases.
const (
	PhaseCompress = "compress"
	PhaseVerify   = "verify"
	PhaseDone     = "done"
	PhaseError    = "error"
)

// DefaultWorkers is the default number of artifacts processed at once.
const DefaultWorkers = 4

// ErrChecksumMismatch is returned by Verify when a restored artifact does
// not match its manifest entry.
var ErrChecksumMismatch = errors.New("archive: checksum mismatch")

// Packer is the subset of *lzwpack.Packer the archiver uses.
type Packer interface {
	Compress(ctx context.Context, src []byte) ([]byte, error)
	Decompress(ctx context.Context, src []byte) ([]byte, error)
	Suffix() string
}

// Archiver compresses artifacts of a store with a bounded worker group.
// Each artifact is compressed by exactly one goroutine.
type Archiver struct {
	store   store.Store
	packer  Packer
	workers int
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	progress ProgressFunc
}

// Option configures the Archiver.
type Option func(*Archiver)

// WithWorkers sets the number of artifacts processed in parallel.
func WithWorkers(n int) Option {
	return func(a *Archiver) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(a *Archiver) { a.progress = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Archiver) { a.logger = l }
}

// New creates an Archiver over st using p for compression.
func New(st store.Store, p Packer, opts ...Option) *Archiver {
	a := &Archiver{
		store:   st,
		packer:  p,
		workers: DefaultWorkers,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Pending returns the artifacts Archive would compress: every listed name
// that does not carry the suffix and is not the manifest.
func (a *Archiver) Pending(ctx context.Context) ([]string, error) {
	names, err := a.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	suffix := a.packer.Suffix()
	pending := names[:0:0]
	for _, name := range names {
		if name == ManifestName || strings.HasSuffix(name, suffix) {
			continue
		}
		pending = append(pending, name)
	}
	return pending, nil
}

// Archive compresses every pending artifact to name plus the suffix and
// writes the manifest. The first failure cancels the remaining work and no
// manifest is written.
func (a *Archiver) Archive(ctx context.Context) (*Manifest, error) {
	start := a.now()

	names, err := a.Pending(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(names))
	var done int
	var inBytes, outBytes int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, name := range names {
		g.Go(func() error {
			entry, err := a.compressOne(gctx, name)
			if err != nil {
				a.report(Progress{Phase: PhaseError, Name: name, Error: err, StartTime: start})
				return fmt.Errorf("archiving %s: %w", name, err)
			}
			entries[i] = entry

			a.mu.Lock()
			done++
			inBytes += int64(entry.InputBytes)
			outBytes += int64(entry.OutputBytes)
			a.reportLocked(Progress{
				Phase:       PhaseCompress,
				Name:        name,
				Done:        done,
				Total:       len(names),
				InputBytes:  inBytes,
				OutputBytes: outBytes,
				StartTime:   start,
			})
			a.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	m := &Manifest{
		Version:     ManifestVersion,
		Codec:       "lzw",
		Suffix:      a.packer.Suffix(),
		CreatedAt:   start.UTC(),
		InputBytes:  inBytes,
		OutputBytes: outBytes,
		Entries:     entries,
	}
	if err := WriteManifest(ctx, a.store, m); err != nil {
		return nil, err
	}

	a.report(Progress{
		Phase:       PhaseDone,
		Done:        len(entries),
		Total:       len(entries),
		InputBytes:  inBytes,
		OutputBytes: outBytes,
		StartTime:   start,
	})
	a.logger.Info("archive written",
		zap.Int("artifacts", len(entries)),
		zap.Int64("inputBytes", inBytes),
		zap.Int64("outputBytes", outBytes),
		zap.Float64("ratio", m.Ratio()),
	)
	return m, nil
}

// Verify restores every artifact listed in the manifest and compares size
// and checksum with the entry. All failures are reported together; a
// mismatch matches ErrChecksumMismatch.
func (a *Archiver) Verify(ctx context.Context) (*Manifest, error) {
	start := a.now()

	m, err := ReadManifest(ctx, a.store)
	if err != nil {
		return nil, err
	}

	var (
		failures []error
		done     int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for _, entry := range m.Entries {
		g.Go(func() error {
			verr := a.verifyOne(gctx, entry)

			a.mu.Lock()
			defer a.mu.Unlock()
			done++
			if verr != nil {
				failures = append(failures, fmt.Errorf("%s: %w", entry.Name, verr))
				a.reportLocked(Progress{Phase: PhaseError, Name: entry.Name, Error: verr, StartTime: start})
				return nil
			}
			a.reportLocked(Progress{Phase: PhaseVerify, Name: entry.Name, Done: done, Total: len(m.Entries), StartTime: start})
			return nil
		})
	}
	// Workers never fail the group; failures are collected instead.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(failures) > 0 {
		return m, errors.Join(failures...)
	}

	a.report(Progress{
		Phase:       PhaseDone,
		Done:        len(m.Entries),
		Total:       len(m.Entries),
		InputBytes:  m.InputBytes,
		OutputBytes: m.OutputBytes,
		StartTime:   start,
	})
	return m, nil
}

func (a *Archiver) compressOne(ctx context.Context, name string) (Entry, error) {
	src, err := a.store.Read(ctx, name)
	if err != nil {
		return Entry{}, err
	}
	out, err := a.packer.Compress(ctx, src)
	if err != nil {
		return Entry{}, err
	}
	target := name + a.packer.Suffix()
	if err := a.store.Write(ctx, target, out); err != nil {
		return Entry{}, err
	}

	a.logger.Debug("archived",
		zap.String("name", name),
		zap.Int("inputBytes", len(src)),
		zap.Int("outputBytes", len(out)),
	)
	return Entry{
		Name:        name,
		Output:      target,
		InputBytes:  len(src),
		OutputBytes: len(out),
		Ratio:       ratio(int64(len(src)), int64(len(out))),
		Checksum:    Checksum(src),
	}, nil
}

func (a *Archiver) verifyOne(ctx context.Context, entry Entry) error {
	packed, err := a.store.Read(ctx, entry.Output)
	if err != nil {
		return err
	}
	if len(packed) != entry.OutputBytes {
		return fmt.Errorf("%w: compressed size %d, manifest says %d",
			ErrChecksumMismatch, len(packed), entry.OutputBytes)
	}
	out, err := a.packer.Decompress(ctx, packed)
	if err != nil {
		return err
	}
	if len(out) != entry.InputBytes {
		return fmt.Errorf("%w: restored size %d, manifest says %d",
			ErrChecksumMismatch, len(out), entry.InputBytes)
	}
	if sum := Checksum(out); sum != entry.Checksum {
		return fmt.Errorf("%w: got %s, manifest says %s", ErrChecksumMismatch, sum, entry.Checksum)
	}
	return nil
}

// Checksum returns the xxhash64 of data as 16 hex digits.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

func (a *Archiver) report(p Progress) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reportLocked(p)
}

func (a *Archiver) reportLocked(p Progress) {
	if a.progress != nil {
		a.progress(p)
	}
}
