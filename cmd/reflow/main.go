// Command reflow is the CLI entry point for the reflow scheduling engine.
package main

import (
	"fmt"
	"os"

	"github.com/flowforge/reflow-engine/cli/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
