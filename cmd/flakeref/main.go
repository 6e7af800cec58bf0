package main

import (
	"os"

	"github.com/bianoble/flakeref/cmd/flakeref/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
