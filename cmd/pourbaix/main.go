// Command pourbaix is the CLI entry point of the Pourbaix diagram engine.
package main

import (
	"os"

	"github.com/turtacn/pourbaix-engine/internal/interfaces/cli"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// Execute prints the error itself.
	if err := cli.Execute(); err != nil {
		if errors.IsInputError(errors.GetCode(err)) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

//Personal.AI order the ending
