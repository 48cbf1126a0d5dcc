package main

import (
	"os"

	"github.com/alpacahq/alpaca-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
