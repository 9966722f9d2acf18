package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/lzwpack/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Compress every artifact in the store",
	Long: `Compress every artifact of the store that does not already carry the
suffix and write manifest.json with sizes, ratios and xxhash64 checksums of
the originals.

With --verify the manifest is read back instead and every compressed
artifact is restored and checked against it.

Examples:
  lzwpack archive --root ./logs --workers 8
  lzwpack archive --root ./logs --verify`,
	Args: cobra.NoArgs,
	RunE: runArchive,
}

var (
	archiveWorkers int
	archiveVerify  bool
	archiveQuiet   bool
)

func init() {
	archiveCmd.Flags().IntVarP(&archiveWorkers, "workers", "w", archive.DefaultWorkers, "number of artifacts processed in parallel")
	archiveCmd.Flags().BoolVar(&archiveVerify, "verify", false, "verify an existing archive instead of creating one")
	archiveCmd.Flags().BoolVarP(&archiveQuiet, "quiet", "q", false, "do not print progress")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	return withPacker(cmd, func(ctx context.Context, e *env) error {
		opts := []archive.Option{
			archive.WithWorkers(archiveWorkers),
			archive.WithLogger(e.logger.Named("archive")),
		}
		if !archiveQuiet {
			opts = append(opts, archive.WithProgress(archive.DefaultProgressFunc))
		}
		a := archive.New(e.store, e.packer, opts...)

		if archiveVerify {
			m, err := a.Verify(ctx)
			if err != nil {
				return fmt.Errorf("archive verification failed: %w", err)
			}
			fmt.Printf("Verified %d artifacts.\n", len(m.Entries))
			return nil
		}

		m, err := a.Archive(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Archived %d artifacts, %s -> %s, ratio %.4f\n",
			len(m.Entries), archive.FormatBytes(m.InputBytes), archive.FormatBytes(m.OutputBytes), m.Ratio())
		return nil
	})
}
