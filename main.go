// Package main is the entry point for the udex measurement decoding tool.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/udex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
