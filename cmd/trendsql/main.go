// Command trendsql runs batch SQL analyses over the YouTube trending dataset.
package main

import (
	"os"

	"github.com/leapstack-labs/trendsql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
