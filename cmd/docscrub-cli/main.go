// Package main is the entry point for the docscrub command-line cleaner.
package main

import (
	"os"

	"github.com/use-agent/docscrub/cmd/docscrub-cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
