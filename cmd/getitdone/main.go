package main

import (
	"os"

	"github.com/dori/getitdone/internal/cli"
	"github.com/dori/getitdone/internal/config"
)

func main() {
	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, config.EnvMap(os.Environ())))
}
