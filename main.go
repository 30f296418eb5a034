package main

import (
	"os"

	"github.com/insightdelivered/card-statement-parser/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
