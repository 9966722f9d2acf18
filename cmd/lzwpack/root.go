package main

import (
	"context"
	"errors"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/lzwpack"
	"github.com/discochess/lzwpack/internal/stats"
	"github.com/discochess/lzwpack/internal/stats/logger"
	"github.com/discochess/lzwpack/internal/stats/prometheus"
	"github.com/discochess/lzwpack/internal/store"
	"github.com/discochess/lzwpack/internal/store/cachedstore"
	"github.com/discochess/lzwpack/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/lzwpack/internal/store/cachedstore/memory"
	"github.com/discochess/lzwpack/internal/store/diskstore"
	"github.com/discochess/lzwpack/internal/store/gcsstore"
	"github.com/discochess/lzwpack/internal/store/s3store"
)

var (
	// Global flags.
	storeKind   string
	rootDir     string
	bucket      string
	prefix      string
	region      string
	endpoint    string
	cacheSize   int
	suffix      string
	rejectEmpty bool
	metricsFile string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "lzwpack",
	Short: "LZW compression for files and object storage",
	Long: `lzwpack compresses artifacts with LZW and packs the codes as varints.

Artifacts are read from and written to a store: a local directory (default),
an S3 bucket or a GCS bucket. Compressed artifacts get the ".zipped" suffix.

With the disk store, artifact names are relative to --root. A file path that
is absolute or lies outside --root is also accepted; its directory then
serves as the root, so all such paths of one command must share a directory.

Examples:
  # Compress a file in the current directory
  lzwpack compress notes.txt

  # Restore it
  lzwpack decompress notes.txt.zipped

  # Compare against gzip, zstd, brotli, lz4 and snappy
  lzwpack compare notes.txt --markdown

  # Compress everything under a bucket prefix
  lzwpack archive --store s3 --bucket my-bucket --prefix logs/2024`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&storeKind, "store", "disk", "artifact store: disk, s3 or gcs")
	flags.StringVarP(&rootDir, "root", "r", ".", "root directory of the disk store")
	flags.StringVar(&bucket, "bucket", "", "bucket name for the s3 and gcs stores")
	flags.StringVar(&prefix, "prefix", "", "object key prefix for the s3 and gcs stores")
	flags.StringVar(&region, "region", "", "AWS region for the s3 store")
	flags.StringVar(&endpoint, "endpoint", "", "custom endpoint for S3-compatible services")
	flags.IntVar(&cacheSize, "cache", 0, "number of artifacts to cache in memory (0 disables)")
	flags.StringVar(&suffix, "suffix", lzwpack.DefaultSuffix, "suffix of compressed artifacts")
	flags.BoolVar(&rejectEmpty, "reject-empty", false, "fail on empty input instead of passing it through")
	flags.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// newLogger returns a development logger with --verbose, else a production
// logger that only reports warnings and errors.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

// openStore builds the store selected by the global flags.
func openStore(ctx context.Context, collector stats.Collector) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch storeKind {
	case "disk":
		st, err = diskstore.New(rootDir)
	case "s3":
		if bucket == "" {
			return nil, errors.New("--bucket is required for the s3 store")
		}
		opts := []s3store.Option{s3store.WithPrefix(prefix)}
		if region != "" {
			opts = append(opts, s3store.WithRegion(region))
		}
		if endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(endpoint))
		}
		st, err = s3store.New(ctx, bucket, opts...)
	case "gcs":
		if bucket == "" {
			return nil, errors.New("--bucket is required for the gcs store")
		}
		st, err = gcsstore.New(ctx, bucket, gcsstore.WithPrefix(prefix))
	default:
		return nil, fmt.Errorf("unknown store %q (want disk, s3 or gcs)", storeKind)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", storeKind, err)
	}

	if cacheSize > 0 {
		strategy, err := lru.New(cacheSize)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("creating LRU strategy: %w", err)
		}
		st = cachedstore.New(st, memory.New(strategy, collector))
	}
	return st, nil
}

// env is what every subcommand works with.
type env struct {
	packer *lzwpack.Packer
	store  store.Store
	logger *zap.Logger
}

// withPacker sets up logging, metrics, the store and the packer, runs fn
// and tears everything down again.
func withPacker(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	var (
		collector stats.Collector = stats.NewNoop()
		registry  *prom.Registry
	)
	switch {
	case metricsFile != "":
		registry = prom.NewRegistry()
		collector = prometheus.New(registry)
	case verbose:
		collector = logger.NewAt(log.Named("stats"), zapcore.InfoLevel)
	}

	st, err := openStore(ctx, collector)
	if err != nil {
		return err
	}

	packer, err := lzwpack.New(
		lzwpack.WithStore(st),
		lzwpack.WithStats(collector),
		lzwpack.WithLogger(log.Named("lzwpack")),
		lzwpack.WithSuffix(suffix),
		lzwpack.WithRejectEmpty(rejectEmpty),
	)
	if err != nil {
		st.Close()
		return err
	}
	defer packer.Close()

	runErr := fn(ctx, &env{packer: packer, store: st, logger: log})

	if cached, ok := st.(*cachedstore.Store); ok {
		cs := cached.Stats()
		log.Debug("artifact cache",
			zap.Int64("hits", cs.Hits),
			zap.Int64("misses", cs.Misses),
			zap.Int64("evictions", cs.Evictions),
			zap.Int("size", cs.Size),
			zap.Int64("bytes", cs.Bytes),
			zap.Float64("hitRate", cs.HitRate()),
		)
	}

	if registry != nil {
		if err := prom.WriteToTextfile(metricsFile, registry); err != nil {
			return errors.Join(runErr, fmt.Errorf("writing metrics: %w", err))
		}
	}
	return runErr
}
