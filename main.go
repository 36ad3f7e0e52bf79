package main

import (
	"os"

	"github.com/spedops/pullout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
