// Command langfuse-trace inspects SDK configuration, sends demo traces and
// fetches prompts from a Langfuse project.
package main

import (
	"fmt"
	"os"
)

// Build-time variables set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
