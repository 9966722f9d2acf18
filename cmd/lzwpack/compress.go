package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/lzwpack/internal/archive"
)

var compressCmd = &cobra.Command{
	Use:   "compress NAME...",
	Short: "Compress artifacts",
	Long: `Compress each named artifact and write NAME.zipped next to it.

The original artifact is left in place. Nothing is written for an artifact
that fails.

Examples:
  lzwpack compress notes.txt
  lzwpack compress --root ./data a.log b.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompress,
}

func init() {
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	args, err := artifactArgs(args)
	if err != nil {
		return err
	}
	return withPacker(cmd, func(ctx context.Context, e *env) error {
		for _, name := range args {
			report, err := e.packer.CompressFile(ctx, name)
			if err != nil {
				return err
			}
			fmt.Printf("%s -> %s (%s -> %s, %d codes, %s)\n",
				report.Input, report.Output,
				archive.FormatBytes(int64(report.InputBytes)), archive.FormatBytes(int64(report.OutputBytes)),
				report.Codes, report.Elapsed.Round(time.Microsecond))
			fmt.Printf("Compression ratio: %.4f\n", report.Ratio)
		}
		return nil
	})
}
