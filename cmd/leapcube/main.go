// Package main provides the leapcube CLI.
package main

import (
	"os"

	// Embed the zone database so query time zones resolve on hosts without one
	_ "time/tzdata"

	"github.com/leapstack-labs/leapcube/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
