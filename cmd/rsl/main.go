package main

import (
	"os"

	"github.com/msto63/robogame/cmd/rsl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
