package main

import (
	"os"

	"github.com/stockledger/stockledger/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
