// Package diskpackerfx provides an fx module for a disk-backed packer.
package diskpackerfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/lzwpack"
	"github.com/discochess/lzwpack/internal/archive"
	"github.com/discochess/lzwpack/internal/stats"
	"github.com/discochess/lzwpack/internal/stats/logger"
	"github.com/discochess/lzwpack/internal/store/cachedstore"
	"github.com/discochess/lzwpack/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/lzwpack/internal/store/cachedstore/memory"
	"github.com/discochess/lzwpack/internal/store/diskstore"
)

// DefaultCacheSize is the number of artifacts cached when Config leaves
// CacheSize unset.
const DefaultCacheSize = 64

// Config holds configuration for the disk-backed packer.
type Config struct {
	// Root is the directory artifacts are read from and written to.
	Root string

	// CacheSize is the number of artifacts to cache in memory.
	// Default is 64.
	CacheSize int

	// Suffix is appended to compressed artifact names.
	// Default is ".zipped".
	Suffix string

	// Workers bounds the archiver's parallelism.
	// Default is archive.DefaultWorkers.
	Workers int
}

// Module provides a disk-backed *lzwpack.Packer and an *archive.Archiver
// over the same store. Requires a *zap.Logger and a Config to be provided.
var Module = fx.Module("diskpacker",
	fx.Provide(
		newStatsCollector,
		newPacker,
		newArchiver,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("lzwpack.stats"))
}

// Params holds dependencies for creating the packer.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided packer.
type Result struct {
	fx.Out

	Packer *lzwpack.Packer
}

func newPacker(p Params) (Result, error) {
	cacheSize := p.Config.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	baseStore, err := diskstore.New(p.Config.Root)
	if err != nil {
		return Result{}, err
	}

	lruStrategy, err := lru.New(cacheSize)
	if err != nil {
		return Result{}, err
	}

	st := cachedstore.New(baseStore, memory.New(lruStrategy, p.Collector))
	p.Logger.Info("opened disk store",
		zap.String("root", baseStore.Root()),
		zap.Int("cacheSize", cacheSize),
	)

	opts := []lzwpack.Option{
		lzwpack.WithStore(st),
		lzwpack.WithStats(p.Collector),
		lzwpack.WithLogger(p.Logger.Named("lzwpack")),
	}
	if p.Config.Suffix != "" {
		opts = append(opts, lzwpack.WithSuffix(p.Config.Suffix))
	}

	packer, err := lzwpack.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return packer.Close()
		},
	})

	return Result{Packer: packer}, nil
}

func newArchiver(cfg Config, packer *lzwpack.Packer, log *zap.Logger) *archive.Archiver {
	return archive.New(packer.Store(), packer,
		archive.WithWorkers(cfg.Workers),
		archive.WithLogger(log.Named("lzwpack.archive")),
	)
}
