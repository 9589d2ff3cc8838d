package main

import (
	"os"

	"github.com/reoring/jsonmold/internal/commands"
	_ "github.com/reoring/jsonmold/source"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		os.Exit(1)
	}
}
