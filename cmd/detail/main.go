// Command detail is the auto detailing service record tracker.
package main

import (
	"os"

	"github.com/clearcoat-labs/detail-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
