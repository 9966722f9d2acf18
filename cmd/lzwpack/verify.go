package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/lzwpack"
)

var verifyCmd = &cobra.Command{
	Use:   "verify NAME...",
	Short: "Check that artifacts survive a round trip",
	Long: `Compress and decompress each named artifact in memory and check that
the result matches the original. Nothing is written to the store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	args, err := artifactArgs(args)
	if err != nil {
		return err
	}
	return withPacker(cmd, func(ctx context.Context, e *env) error {
		var errCount int
		for i, name := range args {
			if verbose {
				fmt.Printf("  [%d/%d] %s\n", i+1, len(args), name)
			}
			if err := verifyOne(ctx, e, name); err != nil {
				fmt.Printf("  ERROR: %s: %v\n", name, err)
				e.logger.Warn("verification failed", zap.String("name", name), zap.Error(err))
				errCount++
			}
		}

		if errCount > 0 {
			return fmt.Errorf("%d artifacts failed verification", errCount)
		}
		fmt.Println("All artifacts verified successfully.")
		return nil
	})
}

func verifyOne(ctx context.Context, e *env, name string) error {
	original, err := e.store.Read(ctx, name)
	if err != nil {
		return err
	}
	packed, err := e.packer.Compress(ctx, original)
	if err != nil {
		return err
	}
	restored, err := e.packer.Decompress(ctx, packed)
	if err != nil {
		return err
	}
	if !bytes.Equal(restored, original) {
		return fmt.Errorf("restored %d bytes differ from the original %d bytes", len(restored), len(original))
	}

	fmt.Printf("%s: %d -> %d bytes, ratio %.4f, OK\n",
		name, len(original), len(packed), lzwpack.Ratio(len(original), len(packed)))
	return nil
}
