// Package main provides the lzwpack CLI tool for compressing and
// decompressing artifacts with LZW.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
