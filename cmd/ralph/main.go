package main

import (
	"os"

	"github.com/marcpiechura/ralph-wiggum/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
