// Package main provides the emlquality command.
package main

import (
	"os"

	"github.com/leapstack-labs/emlquality/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
