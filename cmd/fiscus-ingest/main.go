// Package main is the entry point for fiscus-ingest.
package main

import (
	"os"

	"github.com/donaldgifford/fiscus-ingest/cmd/fiscus-ingest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
