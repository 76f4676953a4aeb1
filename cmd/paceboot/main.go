package main

import (
	"os"

	"github.com/paceboot/paceboot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
