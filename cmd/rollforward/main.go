// Command rollforward edits planning models and runs them against the
// roll-forward service.
package main

import (
	"os"

	"github.com/roach88/rollforward/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
