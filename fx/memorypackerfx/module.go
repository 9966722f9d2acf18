// Package memorypackerfx provides an fx module for an in-memory packer.
// Useful for testing.
package memorypackerfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/lzwpack"
	"github.com/discochess/lzwpack/internal/stats"
	"github.com/discochess/lzwpack/internal/stats/logger"
	"github.com/discochess/lzwpack/internal/store/memstore"
)

// Module provides an in-memory packer and its store for testing.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memorypacker",
	fx.Provide(
		newStatsCollector,
		memstore.New,
		newPacker,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("lzwpack.stats"))
}

// Params holds dependencies for creating the packer.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store // Also exposed for test setup
	Lifecycle fx.Lifecycle
}

func newPacker(p Params) (*lzwpack.Packer, error) {
	packer, err := lzwpack.New(
		lzwpack.WithStore(p.Store),
		lzwpack.WithStats(p.Collector),
		lzwpack.WithLogger(p.Logger.Named("lzwpack")),
	)
	if err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return packer.Close()
		},
	})

	return packer, nil
}
