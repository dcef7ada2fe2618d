package main

import (
	"os"

	"github.com/quantagri/agritrack/cmd/agritrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
