package lzwpack

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/discochess/lzwpack/internal/stats"
	"github.com/discochess/lzwpack/internal/store"
	"github.com/discochess/lzwpack/internal/store/diskstore"
)

// DefaultSuffix is appended to compressed artifact names.
const DefaultSuffix = ".zipped"

// Option configures a Packer.
type Option interface {
	apply(*options)
}

// options holds the packer configuration.
type options struct {
	store       store.Store
	stats       stats.Collector
	logger      *zap.Logger
	suffix      string
	rejectEmpty bool
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
		suffix: DefaultSuffix,
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the storage backend used by the file operations.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithSuffix sets the suffix of compressed artifact names.
// Default is ".zipped".
func WithSuffix(suffix string) Option {
	return optionFunc(func(o *options) {
		o.suffix = suffix
	})
}

// WithRejectEmpty makes Compress and Decompress fail with ErrEmptyInput on
// an empty buffer instead of passing it through.
func WithRejectEmpty(reject bool) Option {
	return optionFunc(func(o *options) {
		o.rejectEmpty = reject
	})
}

// WithDataDir stores artifacts in a local directory.
// This is the recommended way to create a packer for local files.
func WithDataDir(dir string) (Option, error) {
	st, err := diskstore.New(dir)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return WithStore(st), nil
}
