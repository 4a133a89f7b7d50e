package main

import (
	"os"

	"github.com/wonny/nvdbdq/cmd/nvdbdq/commands"
)

// main is the entry point for the nvdbdq CLI
// ⭐ single CLI entry point: go run ./cmd/nvdbdq [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
