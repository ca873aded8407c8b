// Package main is the entry point for the vecseg CLI.
//
// Usage:
//
//	vecseg [flags] <command> [args]
//
// Commands:
//
//	bruteforce - Chunked brute-force search with half of the ids masked
//	ivf        - Train, add and query an IVF index with step timings
//	binary     - Jaccard brute-force search over packed binary vectors
//	run        - Run a scenario described by a YAML config file
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/vecseg/cmd/vecseg/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
