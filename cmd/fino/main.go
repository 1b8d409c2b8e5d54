package main

import (
	"fmt"
	"os"

	"github.com/finohq/finofiling/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fino:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
