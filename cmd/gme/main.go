// Package main is the entry point for the gme CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/gmedit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
