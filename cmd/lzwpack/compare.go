package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/lzwpack/benchmark/analysis"
	"github.com/discochess/lzwpack/benchmark/reporting"
	"github.com/discochess/lzwpack/internal/codec"
	"github.com/discochess/lzwpack/internal/codec/lzwcodec"
	"github.com/discochess/lzwpack/internal/codec/refcodec"
)

var compareCmd = &cobra.Command{
	Use:   "compare NAME...",
	Short: "Compare LZW against other codecs",
	Long: `Compress the named artifacts with LZW and the reference codecs
(gzip, zstd, brotli, lz4, snappy and none) and report ratios and timings.

With --markdown a full report with per-codec statistics and significance
tests against the baseline is written instead.

Examples:
  lzwpack compare a.txt b.txt
  lzwpack compare --markdown --codecs lzw,gzip,zstd *.log > report.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

var (
	compareMarkdown  bool
	compareCodecs    []string
	compareBaseline  string
	compareBootstrap int
)

func init() {
	compareCmd.Flags().BoolVar(&compareMarkdown, "markdown", false, "write a Markdown report")
	compareCmd.Flags().StringSliceVar(&compareCodecs, "codecs", nil, "codecs to run (default: lzw and all reference codecs)")
	compareCmd.Flags().StringVar(&compareBaseline, "baseline", "lzw", "codec the others are compared against")
	compareCmd.Flags().IntVar(&compareBootstrap, "bootstrap", 1000, "bootstrap iterations for confidence intervals")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	args, err := artifactArgs(args)
	if err != nil {
		return err
	}
	codecs, err := selectCodecs(compareCodecs)
	if err != nil {
		return err
	}

	return withPacker(cmd, func(ctx context.Context, e *env) error {
		samples := make([]analysis.Sample, 0, len(args))
		for _, name := range args {
			data, err := e.store.Read(ctx, name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			samples = append(samples, analysis.Sample{Name: name, Data: data})
		}

		results, err := analysis.RunCodecs(codecs, samples)
		if err != nil {
			return err
		}

		if compareMarkdown {
			writeMarkdown(samples, results)
			return nil
		}

		fmt.Printf("%-8s %12s %12s %8s %12s %12s\n", "Codec", "Input", "Output", "Ratio", "Encode", "Decode")
		for _, r := range results {
			fmt.Printf("%-8s %12d %12d %8.3f %12s %12s\n",
				r.Codec, r.InputBytes, r.OutputBytes, r.Ratio(), r.EncodeTime, r.DecodeTime)
		}
		return nil
	})
}

func writeMarkdown(samples []analysis.Sample, results []*analysis.CodecResult) {
	report := reporting.NewMarkdownReport(os.Stdout)
	report.WriteHeader("LZW Codec Comparison")
	report.WriteMethodology(samples)
	report.WriteSummaryTable(results)

	if multi := analysis.CompareAll(results, compareBaseline, compareBootstrap, 0.95); multi != nil {
		for _, comp := range multi.Comparisons {
			report.WriteComparison(comp)
		}
	}
	for _, r := range results {
		report.WriteDistributionChart(r.Codec, r.Ratios)
	}
	report.WriteFooter()
}

// selectCodecs returns lzw plus the named reference codecs, or every codec
// when names is empty.
func selectCodecs(names []string) ([]codec.Codec, error) {
	if len(names) == 0 {
		refs, err := refcodec.All()
		if err != nil {
			return nil, err
		}
		return append([]codec.Codec{lzwcodec.New()}, refs...), nil
	}

	codecs := make([]codec.Codec, 0, len(names))
	for _, name := range names {
		if name == "lzw" {
			codecs = append(codecs, lzwcodec.New())
			continue
		}
		c, err := refcodec.New(name)
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, c)
	}
	return codecs, nil
}
