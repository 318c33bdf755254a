package main

import (
	"os"

	"github.com/davido-builds/openicons-site/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
