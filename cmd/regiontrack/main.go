// Package main is the entry point for the regiontrack tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/regiontrack/cmd/regiontrack/commands"
	"go.trai.ch/regiontrack/internal/app"
	_ "go.trai.ch/regiontrack/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*commands.CLI)) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	defer func() {
		if err := components.App.Close(); err != nil {
			components.Logger.Error(err)
		}
	}()

	// 2. Interface - CLI
	cli := commands.New(components.App)
	for _, opt := range opts {
		opt(cli)
	}

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
