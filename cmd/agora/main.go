// Agora: structured debate MCP server
//
// Usage:
//
//	agora serve                      # Start MCP server (stdio transport)
//	agora actions --state S          # List legal actions per role
//	agora check --state S --role R --type T [--close]
//	agora verify [debate-id]         # Replay logs against stored state
//	agora version [--check]
package main

import (
	"fmt"
	"os"

	"github.com/HendryAvila/agora/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
