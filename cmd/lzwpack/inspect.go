package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/discochess/lzwpack/internal/codec/lzwcodec"
	"github.com/discochess/lzwpack/internal/varint"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect NAME.zipped",
	Short: "Describe the code stream of a compressed artifact",
	Long: `Unpack the varints of a compressed artifact and report the code
count, literal and learned codes, the largest code, the dictionary size the
decoder will reach and how many bytes each code took.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var dumpCodes bool

func init() {
	inspectCmd.Flags().BoolVar(&dumpCodes, "codes", false, "print every code")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	names, err := artifactArgs(args)
	if err != nil {
		return err
	}
	name := names[0]
	return withPacker(cmd, func(ctx context.Context, e *env) error {
		data, err := e.store.Read(ctx, name)
		if err != nil {
			return err
		}

		codes, st, err := lzwcodec.New().Inspect(data)
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", name, err)
		}

		fmt.Printf("Artifact:        %s\n", name)
		fmt.Printf("Packed bytes:    %d\n", st.PackedBytes)
		fmt.Printf("Codes:           %d\n", st.Codes)
		fmt.Printf("Literal codes:   %d\n", st.Literals)
		fmt.Printf("Learned codes:   %d\n", st.Learned())
		fmt.Printf("Max code:        %d\n", st.MaxCode)
		fmt.Printf("Dictionary size: %d\n", st.DictionarySize)

		widths := make(map[int]int)
		for _, code := range codes {
			widths[varint.Len(code)]++
		}
		keys := make([]int, 0, len(widths))
		for w := range widths {
			keys = append(keys, w)
		}
		sort.Ints(keys)
		for _, w := range keys {
			fmt.Printf("  %d-byte codes:  %d\n", w, widths[w])
		}

		if _, err := e.packer.Decompress(ctx, data); err != nil {
			fmt.Printf("Valid:           no (%v)\n", err)
		} else {
			fmt.Println("Valid:           yes")
		}

		if dumpCodes {
			parts := make([]string, len(codes))
			for i, code := range codes {
				parts[i] = fmt.Sprint(code)
			}
			fmt.Printf("[%s]\n", strings.Join(parts, ","))
		}
		return nil
	})
}
