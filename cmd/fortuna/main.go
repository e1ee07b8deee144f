package main

import (
	"os"

	"github.com/wonny/fortuna/backend/cmd/fortuna/commands"
)

// main is the entry point for the Fortuna CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/fortuna [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
