package main

import (
	"os"

	"github.com/marlowe/brewmind/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
