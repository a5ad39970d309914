package main

import (
	"os"

	"github.com/wonny/balancedrisk/cmd/riskscore/commands"
)

// main is the entry point for the balanced-risk CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/riskscore [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
