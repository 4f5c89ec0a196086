// Command studioctl drives the studio pages from a terminal, against the
// in-process memory backend or a running studio API.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
