// Package main provides the birdlog CLI, a single-shot record-keeper for
// bird species and sightings. Every invocation loads the two collections,
// performs one command, and writes back whatever changed.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitUserError)
	}
}
