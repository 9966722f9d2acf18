package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/lzwpack/internal/archive"
)

var decompressCmd = &cobra.Command{
	Use:   "decompress NAME.zipped...",
	Short: "Restore compressed artifacts",
	Long: `Decompress each named artifact and write it under its name with the
suffix removed. Names must end in the configured suffix.

Examples:
  lzwpack decompress notes.txt.zipped`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecompress,
}

func init() {
	rootCmd.AddCommand(decompressCmd)
}

func runDecompress(cmd *cobra.Command, args []string) error {
	args, err := artifactArgs(args)
	if err != nil {
		return err
	}
	return withPacker(cmd, func(ctx context.Context, e *env) error {
		for _, name := range args {
			report, err := e.packer.DecompressFile(ctx, name)
			if err != nil {
				return err
			}
			fmt.Printf("%s -> %s (%s -> %s, %d codes)\n",
				report.Input, report.Output,
				archive.FormatBytes(int64(report.InputBytes)), archive.FormatBytes(int64(report.OutputBytes)),
				report.Codes)
		}
		return nil
	})
}
