// Package main is the quotegen command line entry point.
package main

import (
	"os"

	"quotegen/cmd/quotegen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
