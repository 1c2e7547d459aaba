package main

import (
	"fmt"
	"os"

	"github.com/roach88/declgen/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "declgen:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
